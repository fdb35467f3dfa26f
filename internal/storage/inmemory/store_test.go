package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

func newTestUsers(t *testing.T) *UserStore {
	t.Helper()
	store := NewUserStore()
	ctx := context.Background()
	for _, u := range []*models.User{
		{ID: "U1", Username: "alice", Email: "alice@example.com", CreatedAt: time.Now()},
		{ID: "U2", Username: "bob", Email: "bob@example.com", CreatedAt: time.Now()},
	} {
		require.NoError(t, store.CreateIfAbsent(ctx, u))
	}
	return store
}

func TestCreateIfAbsent_KeepsFirstRecord(t *testing.T) {
	store := newTestUsers(t)
	ctx := context.Background()

	err := store.CreateIfAbsent(ctx, &models.User{ID: "U1", Username: "impostor"})
	require.NoError(t, err)

	user, err := store.GetByID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestSetFollowEdge_BothSidesOrNeither(t *testing.T) {
	store := newTestUsers(t)
	ctx := context.Background()

	require.NoError(t, store.SetFollowEdge(ctx, "U1", "U2", true))
	// repeated follow stays idempotent
	require.NoError(t, store.SetFollowEdge(ctx, "U1", "U2", true))

	alice, _ := store.GetByID(ctx, "U1")
	bob, _ := store.GetByID(ctx, "U2")
	assert.Equal(t, []string{"U2"}, alice.Following)
	assert.Equal(t, []string{"U1"}, bob.Followers)

	// unknown target leaves the actor untouched
	err := store.SetFollowEdge(ctx, "U1", "ghost", true)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	alice, _ = store.GetByID(ctx, "U1")
	assert.Equal(t, []string{"U2"}, alice.Following)
}

func TestReadsReturnCopies(t *testing.T) {
	store := newTestUsers(t)
	ctx := context.Background()

	user, err := store.GetByID(ctx, "U1")
	require.NoError(t, err)
	user.Following = append(user.Following, "U2")
	user.Username = "mutated"

	reread, err := store.GetByID(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, reread.Following)
	assert.Equal(t, "alice", reread.Username)
}

func TestPostStore_OrderingBreaksTiesByInsertion(t *testing.T) {
	store := NewPostStore()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"P1", "P2", "P3"} {
		require.NoError(t, store.Create(ctx, &models.Post{
			ID: id, UserID: "U1", Username: "alice", CreatedAt: at,
		}))
	}

	posts, err := store.ListByAuthors(ctx, []string{"U1"}, 50)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "P3", posts[0].ID)
	assert.Equal(t, "P1", posts[2].ID)
}

func TestAppendComment(t *testing.T) {
	store := NewPostStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Post{ID: "P1", UserID: "U1"}))

	comment := models.Comment{UserID: "U2", Username: "bob", Text: "hi", Timestamp: "2024-03-01T12:00:00Z"}
	require.NoError(t, store.AppendComment(ctx, "P1", comment))

	post, err := store.GetByID(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "hi", post.Comments[0].Text)

	err = store.AppendComment(ctx, "missing", comment)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}
