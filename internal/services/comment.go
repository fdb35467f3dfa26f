package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

const (
	// maxCommentLength is in characters, not bytes.
	maxCommentLength = 200
	// commentPageSize is how many comments a read returns by default.
	commentPageSize = 5
)

// ErrCommentTooLong rejects comments over the length cap.
var ErrCommentTooLong = errors.New("comment too long (max 200 chars)")

// timestampLayout is RFC 3339 with a fixed-width fraction so that the
// stored strings sort the same way the instants do.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CommentService appends to and reads the embedded per-post comment list.
type CommentService struct {
	posts storage.PostStorage
	now   func() time.Time
}

// NewCommentService creates a new comment service.
func NewCommentService(posts storage.PostStorage) *CommentService {
	return &CommentService{posts: posts, now: time.Now}
}

// Append adds a comment with a server timestamp to the post's embedded
// list. The underlying append is atomic; concurrent comments by other
// actors are never overwritten.
func (s *CommentService) Append(ctx context.Context, postID string, author *models.User, text string) (*models.Comment, error) {
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment := models.Comment{
		UserID:    author.ID,
		Username:  author.Username,
		Text:      text,
		Timestamp: s.now().UTC().Format(timestampLayout),
	}
	if err := s.posts.AppendComment(ctx, postID, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &comment, nil
}

// List reads the post's full embedded list, sorts it newest first, and
// returns the top limit entries plus the total count. Read cost grows with
// the total comments on the post; fine at embedded-list scale.
func (s *CommentService) List(ctx context.Context, postID string, limit int) ([]models.Comment, int, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = commentPageSize
	}

	comments := make([]models.Comment, len(post.Comments))
	for i, c := range post.Comments {
		c.Timestamp = normalizeTimestamp(c.Timestamp)
		comments[i] = c
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp > comments[j].Timestamp
	})

	total := len(comments)
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, total, nil
}

// normalizeTimestamp rewrites an instant into UTC RFC 3339 so that string
// comparison orders comments regardless of the offset they were stored
// with.
func normalizeTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format(timestampLayout)
}
