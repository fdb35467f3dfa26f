package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// searchRangeEnd caps the half-open prefix range [q, q+searchRangeEnd).
// U+F8FF is above every codepoint that can appear in a username.
const searchRangeEnd = ""

// UserStorage is the PostgreSQL implementation of storage.UserStorage.
type UserStorage struct {
	db *pgxpool.Pool
}

// NewUserStorage creates a new user storage backed by the given pool.
func NewUserStorage(db *pgxpool.Pool) *UserStorage {
	return &UserStorage{db: db}
}

const userColumns = `id, username, email, following, followers, profile_pic, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email,
		&user.Following, &user.Followers, &user.ProfilePic, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by identity id.
func (s *UserStorage) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves users for the given ids, keyed by id.
func (s *UserStorage) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CreateIfAbsent inserts the user unless one with the same id exists.
func (s *UserStorage) CreateIfAbsent(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, following, followers, profile_pic, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.Exec(ctx, query,
		user.ID, user.Username, user.Email,
		user.Following, user.Followers, user.ProfilePic, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername performs an exact-match lookup; the first match wins.
func (s *UserStorage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	user, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// SearchPrefix returns users whose case-folded username starts with the
// case-folded query, excluding excludeID.
func (s *UserStorage) SearchPrefix(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	q := strings.ToLower(query)
	sql := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(username) >= $1 AND lower(username) < $2 AND id <> $3
		ORDER BY lower(username)
		LIMIT $4
	`
	rows, err := s.db.Query(ctx, sql, q, q+searchRangeEnd, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// SetFollowEdge updates both sides of the actor→target edge in one
// transaction. array_append(array_remove(...)) keeps the add idempotent, so
// a racing double toggle cannot produce a duplicate edge entry.
func (s *UserStorage) SetFollowEdge(ctx context.Context, actorID, targetID string, follow bool) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin follow transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	actorQuery := `UPDATE users SET following = array_remove(following, $2) WHERE id = $1`
	targetQuery := `UPDATE users SET followers = array_remove(followers, $2) WHERE id = $1`
	if follow {
		actorQuery = `UPDATE users SET following = array_append(array_remove(following, $2), $2) WHERE id = $1`
		targetQuery = `UPDATE users SET followers = array_append(array_remove(followers, $2), $2) WHERE id = $1`
	}

	result, err := tx.Exec(ctx, actorQuery, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to update following: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	result, err = tx.Exec(ctx, targetQuery, targetID, actorID)
	if err != nil {
		return fmt.Errorf("failed to update followers: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit follow transaction: %w", err)
	}
	return nil
}
