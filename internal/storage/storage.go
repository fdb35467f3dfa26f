package storage

import (
	"context"
	"errors"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")
)

// UserStorage defines the contract for the User collection.
type UserStorage interface {
	// GetByID retrieves a user by identity id.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDs retrieves users for the given ids, keyed by id. Missing ids
	// are silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	// CreateIfAbsent inserts the user unless a record with the same id
	// already exists. Calling it twice for the same id never duplicates.
	CreateIfAbsent(ctx context.Context, user *models.User) error
	// FindByUsername performs an exact-match lookup. Uniqueness is not
	// enforced by the data model; the first match wins.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// SearchPrefix returns up to limit users whose case-folded username
	// starts with the case-folded query, excluding excludeID.
	SearchPrefix(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error)
	// SetFollowEdge adds (follow=true) or removes (follow=false) the edge
	// actor→target on both sides atomically: actor.following and
	// target.followers commit together or not at all. The update is
	// idempotent on each side.
	SetFollowEdge(ctx context.Context, actorID, targetID string, follow bool) error
}

// PostStorage defines the contract for the Post collection.
type PostStorage interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByAuthors returns up to limit posts whose author id is in the
	// given set, newest first.
	ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*models.Post, error)
	// ListByUsername filters on the denormalized username column, newest
	// first. Posts keep the username their author had at creation time.
	ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error)
	// AppendComment appends a comment to the post's embedded list without
	// overwriting concurrent appends by other actors.
	AppendComment(ctx context.Context, postID string, comment models.Comment) error
}
