package social

import (
	"time"

	"talent-nest/backend/internal/constants"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/pkg/config"
)

// Options tunes the services. The zero value is not usable; start from DefaultOptions.
type Options struct {
	// AllowedCreationStatuses is the set of statuses an initiator may create a request with.
	AllowedCreationStatuses []model.Status
	// InvalidateOnGraphChange also drops both parties' match lists whenever a request is
	// created or answered.
	InvalidateOnGraphChange bool

	ConnectionsTTL time.Duration
	FeedTTL        time.Duration
	MatchesTTL     time.Duration

	NotificationRetention   time.Duration
	NotificationMaxPageSize int
}

// DefaultOptions returns the strict creation flow with the default cache lifetimes.
func DefaultOptions() Options {
	return Options{
		AllowedCreationStatuses: []model.Status{model.StatusInterested},
		InvalidateOnGraphChange: true,
		ConnectionsTTL:          constants.DefaultConnectionsTTL,
		FeedTTL:                 constants.DefaultFeedTTL,
		MatchesTTL:              constants.DefaultMatchesTTL,
		NotificationRetention:   constants.DefaultNotificationRetention,
		NotificationMaxPageSize: constants.MaxNotificationPageSize,
	}
}

// OptionsFromConfig maps validated configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if len(cfg.AllowedCreationStatuses) > 0 {
		opts.AllowedCreationStatuses = opts.AllowedCreationStatuses[:0]
		for _, raw := range cfg.AllowedCreationStatuses {
			if st, ok := model.ParseStatus(raw); ok {
				opts.AllowedCreationStatuses = append(opts.AllowedCreationStatuses, st)
			}
		}
	}
	opts.InvalidateOnGraphChange = cfg.InvalidateOnGraphChange
	if cfg.ConnectionsCacheTTL > 0 {
		opts.ConnectionsTTL = cfg.ConnectionsCacheTTL
	}
	if cfg.FeedCacheTTL > 0 {
		opts.FeedTTL = cfg.FeedCacheTTL
	}
	if cfg.MatchesCacheTTL > 0 {
		opts.MatchesTTL = cfg.MatchesCacheTTL
	}
	if cfg.NotificationRetention > 0 {
		opts.NotificationRetention = cfg.NotificationRetention
	}
	if cfg.NotificationMaxPageSize > 0 {
		opts.NotificationMaxPageSize = cfg.NotificationMaxPageSize
	}
	return opts
}

func (o Options) allowsCreation(st model.Status) bool {
	for _, allowed := range o.AllowedCreationStatuses {
		if allowed == st {
			return true
		}
	}
	return false
}
