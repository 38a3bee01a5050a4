package auth

import (
	"context"

	"github.com/MitroiBogdan/NEXAR/internal/profile"
)

// MockVerifier accepts tokens from a fixed table. It backs handler tests and
// the memory store mode of the server.
type MockVerifier struct {
	// Tokens maps a bearer token to the identity it authenticates.
	Tokens map[string]*profile.Identity
	// Identity is returned for any token not in Tokens, when set.
	Identity *profile.Identity
	Error    error
}

func (m *MockVerifier) Verify(_ context.Context, token string) (*profile.Identity, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if id, ok := m.Tokens[token]; ok {
		return id, nil
	}
	if m.Identity != nil {
		return m.Identity, nil
	}
	return nil, ErrInvalidToken
}

// TestIdentity is the caller used across tests.
func TestIdentity() *profile.Identity {
	return &profile.Identity{ID: "uid-test-123", Email: "test@example.com"}
}

var _ Verifier = (*MockVerifier)(nil)
