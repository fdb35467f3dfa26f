package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// PostStorage is the PostgreSQL implementation of storage.PostStorage.
type PostStorage struct {
	db *pgxpool.Pool
}

// NewPostStorage creates a new post storage backed by the given pool.
func NewPostStorage(db *pgxpool.Pool) *PostStorage {
	return &PostStorage{db: db}
}

const postColumns = `id, user_id, username, caption, image_url, created_at, likes, comments`

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.Username, &post.Caption,
		&post.ImageURL, &post.CreatedAt, &post.Likes, &post.Comments,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (s *PostStorage) Create(ctx context.Context, post *models.Post) error {
	comments, err := json.Marshal(post.Comments)
	if err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}

	query := `
		INSERT INTO posts (id, user_id, username, caption, image_url, created_at, likes, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.Exec(ctx, query,
		post.ID, post.UserID, post.Username, post.Caption,
		post.ImageURL, post.CreatedAt, post.Likes, comments,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its embedded comment list.
func (s *PostStorage) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListByAuthors returns up to limit posts from the given author set, newest
// first. The whole set travels as one array parameter; Postgres places no
// cap on ANY() membership size.
func (s *PostStorage) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.listPosts(ctx, query, authorIDs, limit)
}

// ListByUsername returns up to limit posts carrying the given denormalized
// username, newest first.
func (s *PostStorage) ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.listPosts(ctx, query, username, limit)
}

func (s *PostStorage) listPosts(ctx context.Context, query string, filter any, limit int) ([]*models.Post, error) {
	rows, err := s.db.Query(ctx, query, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// AppendComment concatenates one comment onto the post's jsonb list. The
// append runs inside a single UPDATE, so concurrent appends by other actors
// are never overwritten.
func (s *PostStorage) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	encoded, err := json.Marshal([]models.Comment{comment})
	if err != nil {
		return fmt.Errorf("failed to encode comment: %w", err)
	}

	query := `UPDATE posts SET comments = comments || $2::jsonb WHERE id = $1`
	result, err := s.db.Exec(ctx, query, postID, encoded)
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrPostNotFound
	}
	return nil
}
