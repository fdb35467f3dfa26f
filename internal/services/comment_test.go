package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage/inmemory"
)

func newCommentFixture(t *testing.T) (*CommentService, *models.Post, *models.User) {
	t.Helper()
	store := inmemory.NewPostStore()
	svc := NewCommentService(store)

	post := &models.Post{
		ID:        "P1",
		UserID:    "U2",
		Username:  "bob",
		Caption:   "hi",
		ImageURL:  "https://img.example/x.jpg",
		CreatedAt: time.Now(),
		Likes:     []string{},
		Comments:  []models.Comment{},
	}
	require.NoError(t, store.Create(context.Background(), post))

	author := &models.User{ID: "U1", Username: "alice"}
	return svc, post, author
}

func TestAppend_LengthCap(t *testing.T) {
	svc, post, author := newCommentFixture(t)
	ctx := context.Background()

	_, err := svc.Append(ctx, post.ID, author, strings.Repeat("a", 201))
	assert.ErrorIs(t, err, ErrCommentTooLong)

	comment, err := svc.Append(ctx, post.ID, author, strings.Repeat("a", 200))
	require.NoError(t, err)
	assert.Equal(t, "U1", comment.UserID)
	assert.Equal(t, "alice", comment.Username)
	assert.NotEmpty(t, comment.Timestamp)
}

func TestAppend_CountsRunesNotBytes(t *testing.T) {
	svc, post, author := newCommentFixture(t)

	// 200 multi-byte characters are within the cap
	_, err := svc.Append(context.Background(), post.ID, author, strings.Repeat("é", 200))
	assert.NoError(t, err)
}

func TestAppend_PostNotFound(t *testing.T) {
	svc, _, author := newCommentFixture(t)

	_, err := svc.Append(context.Background(), "missing", author, "hello")
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestList_LimitAndTotal(t *testing.T) {
	svc, post, author := newCommentFixture(t)
	ctx := context.Background()

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < 20; i++ {
		_, err := svc.Append(ctx, post.ID, author, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	comments, total, err := svc.List(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
	require.Len(t, comments, 5)

	// newest first
	assert.Equal(t, "comment 19", comments[0].Text)
	assert.Equal(t, "comment 15", comments[4].Text)
	for i := 1; i < len(comments); i++ {
		assert.GreaterOrEqual(t, comments[i-1].Timestamp, comments[i].Timestamp)
	}
}

func TestList_NormalizesMixedOffsets(t *testing.T) {
	store := inmemory.NewPostStore()
	svc := NewCommentService(store)
	ctx := context.Background()

	post := &models.Post{
		ID: "P1",
		Comments: []models.Comment{
			{UserID: "U1", Username: "alice", Text: "older", Timestamp: "2024-03-01T10:00:00+02:00"},
			{UserID: "U2", Username: "bob", Text: "newer", Timestamp: "2024-03-01T09:30:00Z"},
		},
	}
	require.NoError(t, store.Create(ctx, post))

	comments, total, err := svc.List(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	// 10:00+02:00 is 08:00 UTC, before 09:30 UTC
	assert.Equal(t, "newer", comments[0].Text)
	assert.Equal(t, "older", comments[1].Text)
}

func TestList_PostNotFound(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	_, _, err := svc.List(context.Background(), "missing", 0)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}
