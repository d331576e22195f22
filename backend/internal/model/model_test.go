package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice:bob", PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestConnectionRequest_Counterparty(t *testing.T) {
	req := ConnectionRequest{FromUserID: "a", ToUserID: "b"}

	assert.Equal(t, "b", req.Counterparty("a"))
	assert.Equal(t, "a", req.Counterparty("b"))
	assert.Equal(t, "", req.Counterparty("c"))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("accepted")
	assert.True(t, ok)
	assert.Equal(t, StatusAccepted, s)
	assert.True(t, s.IsResolution())

	_, ok = ParseStatus("pending")
	assert.False(t, ok)
	assert.False(t, StatusIgnored.IsResolution())
	assert.False(t, StatusInterested.IsResolution())
}

func TestParseVisibility(t *testing.T) {
	v, ok := ParseVisibility("")
	assert.True(t, ok)
	assert.Equal(t, VisibilityPublic, v)

	_, ok = ParseVisibility("everyone")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", PublicProfile{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "ada", PublicProfile{Username: "ada"}.DisplayName())
	assert.Equal(t, "Someone", PublicProfile{}.DisplayName())
}

func TestUser_PublicOmitsPrivateFields(t *testing.T) {
	u := User{ID: "u1", Username: "ada", Email: "ada@example.com", TechStack: []string{"go"}}
	p := u.Public()

	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, []string{"go"}, p.TechStack)

	p.TechStack[0] = "rust"
	assert.Equal(t, "go", u.TechStack[0], "projection must not alias the user's stack")
}
