package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"talent-nest/backend/internal/store"
	"talent-nest/backend/pkg/logger"
)

// Repository keeps users and connection requests in Neo4j. A request is a node linked
// to both participants: (:User)-[:SENT]->(:ConnectionRequest)-[:TO]->(:User).
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

var (
	_ store.UserDirectory   = (*Repository)(nil)
	_ store.ConnectionStore = (*Repository)(nil)
)

// NewDriver creates a driver and verifies the server is reachable.
func NewDriver(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}
	return driver, nil
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("graph"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// Ping checks that the server is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

var schemaStatements = []string{
	"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT connection_request_id_unique IF NOT EXISTS FOR (r:ConnectionRequest) REQUIRE r.id IS UNIQUE",
	// one request per unordered pair
	"CREATE CONSTRAINT connection_request_pair_unique IF NOT EXISTS FOR (r:ConnectionRequest) REQUIRE r.pair_key IS UNIQUE",
	"CREATE INDEX connection_request_to_status IF NOT EXISTS FOR (r:ConnectionRequest) ON (r.to_user_id, r.status)",
	"CREATE INDEX connection_request_from_status IF NOT EXISTS FOR (r:ConnectionRequest) ON (r.from_user_id, r.status)",
}

// EnsureSchema creates the constraints and indexes the repository depends on. The pair
// constraint must exist before any request is written.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		result, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = result.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", stmt, err)
		}
	}

	r.logger.Info("Graph schema ensured", zap.Int("statements", len(schemaStatements)))
	return nil
}

// DropAll deletes every node and relationship. Only used by maintenance commands.
func (r *Repository) DropAll(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to delete all data: %w", err)
	}

	r.logger.Warn("All nodes and relationships deleted")
	return nil
}

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolationCode
}
