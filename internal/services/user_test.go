package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/auth"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage/inmemory"
)

func newUserService() (*UserService, *inmemory.UserStore) {
	store := inmemory.NewUserStore()
	return NewUserService(store), store
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	claims := &auth.Claims{UserID: "U1", Email: "alice@example.com"}

	first, err := svc.GetOrCreate(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "U1", first.ID)
	assert.Equal(t, "alice", first.Username)
	assert.Empty(t, first.Following)
	assert.Empty(t, first.Followers)
	assert.Nil(t, first.ProfilePic)

	second, err := svc.GetOrCreate(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestFindByUsername(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, &auth.Claims{UserID: "U1", Email: "alice@example.com"})
	require.NoError(t, err)

	user, err := svc.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)

	_, err = svc.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSearch_PrefixSemantics(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	emails := []string{
		"anna@example.com", "Annabel@example.com", "annika@example.com",
		"bob@example.com", "joanne@example.com",
	}
	for i, email := range emails {
		_, err := svc.GetOrCreate(ctx, &auth.Claims{UserID: fmt.Sprintf("U%d", i), Email: email})
		require.NoError(t, err)
	}

	results, err := svc.Search(ctx, "ann", "U0")
	require.NoError(t, err)

	usernames := make([]string, 0, len(results))
	for _, u := range results {
		usernames = append(usernames, u.Username)
	}
	// anna (U0) is the requester and excluded; "joanne" contains but does
	// not start with the prefix
	assert.ElementsMatch(t, []string{"Annabel", "annika"}, usernames)
}

func TestSearch_CapsAtTen(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.GetOrCreate(ctx, &auth.Claims{
			UserID: fmt.Sprintf("U%d", i),
			Email:  fmt.Sprintf("ann%02d@example.com", i),
		})
		require.NoError(t, err)
	}

	results, err := svc.Search(ctx, "ann", "someone-else")
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _ := newUserService()

	results, err := svc.Search(context.Background(), "", "U1")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListByIDs_NewestFirst(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"U1", "U2", "U3"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, err := svc.GetOrCreate(ctx, &auth.Claims{UserID: id, Email: id + "@example.com"})
		require.NoError(t, err)
	}

	users, err := svc.ListByIDs(ctx, []string{"U1", "U2", "U3", "missing"})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "U3", users[0].ID)
	assert.Equal(t, "U1", users[2].ID)
}
