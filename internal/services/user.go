package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/auth"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// searchLimit caps username search results.
const searchLimit = 10

// UserService maps external identities to application user records.
type UserService struct {
	users storage.UserStorage
	now   func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(users storage.UserStorage) *UserService {
	return &UserService{users: users, now: time.Now}
}

// GetOrCreate returns the user record for the verified claims, creating it
// on first sight. The username is the email local-part. Idempotent: a second
// call for the same identity never duplicates the record.
func (s *UserService) GetOrCreate(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	username, _, _ := strings.Cut(claims.Email, "@")

	user := &models.User{
		ID:        claims.UserID,
		Username:  username,
		Email:     claims.Email,
		Following: []string{},
		Followers: []string{},
		CreatedAt: s.now(),
	}
	if err := s.users.CreateIfAbsent(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return s.users.GetByID(ctx, claims.UserID)
}

// FindByUsername looks up a user by exact username. Uniqueness is not
// enforced; the first match wins.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// ListByIDs resolves the given ids to user records, most recently created
// first. The follow date is not stored, so account age stands in for it.
func (s *UserService) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	byID, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make([]*models.User, 0, len(byID))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// Search returns up to 10 users whose username starts with the case-folded
// query, excluding the requesting user.
func (s *UserService) Search(ctx context.Context, query, requesterID string) ([]*models.User, error) {
	if query == "" {
		return nil, nil
	}
	return s.users.SearchPrefix(ctx, query, requesterID, searchLimit)
}
