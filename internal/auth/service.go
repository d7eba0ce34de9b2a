package auth

import (
	"context"
	"fmt"

	"github.com/covechat/cove-server/internal/store"
)

// Service implements the login flow: external credential exchange, user
// directory upsert and session token issuance.
type Service struct {
	store    store.UserStore
	verifier Verifier
	tokens   *TokenConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, verifier Verifier, tokens *TokenConfig) *Service {
	return &Service{
		store:    userStore,
		verifier: verifier,
		tokens:   tokens,
	}
}

// Login exchanges an identity-provider credential for a session token.
// The user row is created or refreshed (display name, avatar, last seen);
// banned identities are rejected.
func (s *Service) Login(ctx context.Context, providerToken string) (string, *store.User, error) {
	identity, err := s.verifier.Verify(ctx, providerToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.store.UpsertUser(ctx, identity.Subject, identity.DisplayName, identity.AvatarURL, identity.Email, identity.Premium)
	if err != nil {
		return "", nil, fmt.Errorf("upsert user: %w", err)
	}

	if user.Banned {
		return "", nil, ErrBanned
	}

	token, err := IssueToken(s.tokens, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// VerifySession validates a session token and returns the identity id.
func (s *Service) VerifySession(tokenString string) (string, error) {
	return VerifyToken(s.tokens, tokenString)
}
