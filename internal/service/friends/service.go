package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/covechat/cove-server/internal/store"
)

// Common errors for friend operations.
var (
	ErrCannotFriendSelf = errors.New("cannot befriend yourself")
	ErrUserNotFound     = errors.New("user not found")
)

// Service provides friendship business logic. Friendships are symmetric:
// one add creates both directions, and adds are idempotent.
type Service struct {
	store store.Store
}

// New creates a new friends service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Add creates a friendship between two identities.
func (s *Service) Add(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return ErrCannotFriendSelf
	}

	if _, err := s.store.GetUser(ctx, friendID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load target user: %w", err)
	}

	if err := s.store.AddFriend(ctx, userID, friendID); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	return nil
}

// List returns the profiles of all friends of a user.
func (s *Service) List(ctx context.Context, userID string) ([]*store.User, error) {
	users, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return users, nil
}
