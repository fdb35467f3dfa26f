// Package inmemory holds map-backed implementations of the storage
// contracts, used by tests. Ordering and atomicity semantics mirror the
// postgres package.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// UserStore implements storage.UserStorage in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Following = append([]string(nil), u.Following...)
	c.Followers = append([]string(nil), u.Followers...)
	return &c
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *UserStore) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users[id] = cloneUser(user)
		}
	}
	return users, nil
}

func (s *UserStore) CreateIfAbsent(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return nil
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// iterate in a stable order so "first match wins" is deterministic
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if s.users[id].Username == username {
			return cloneUser(s.users[id]), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *UserStore) SearchPrefix(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []*models.User
	for _, user := range s.users {
		if user.ID == excludeID {
			continue
		}
		if strings.HasPrefix(strings.ToLower(user.Username), q) {
			matches = append(matches, cloneUser(user))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return strings.ToLower(matches[i].Username) < strings.ToLower(matches[j].Username)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *UserStore) SetFollowEdge(ctx context.Context, actorID, targetID string, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.users[actorID]
	if !ok {
		return storage.ErrUserNotFound
	}
	target, ok := s.users[targetID]
	if !ok {
		return storage.ErrUserNotFound
	}

	actor.Following = removeID(actor.Following, targetID)
	target.Followers = removeID(target.Followers, actorID)
	if follow {
		actor.Following = append(actor.Following, targetID)
		target.Followers = append(target.Followers, actorID)
	}
	return nil
}

func removeID(ids []string, id string) []string {
	var out []string
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// PostStore implements storage.PostStorage in memory.
type PostStore struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	// insertion counter breaks ordering ties between posts created within
	// the same timestamp granularity
	seq map[string]int
	n   int
}

// NewPostStore creates a new in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{
		posts: make(map[string]*models.Post),
		seq:   make(map[string]int),
	}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]string(nil), p.Likes...)
	c.Comments = append([]models.Comment(nil), p.Comments...)
	return &c
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++
	s.seq[post.ID] = s.n
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (s *PostStore) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*models.Post, error) {
	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	return s.list(func(p *models.Post) bool { return authors[p.UserID] }, limit), nil
}

func (s *PostStore) ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error) {
	return s.list(func(p *models.Post) bool { return p.Username == username }, limit), nil
}

func (s *PostStore) list(match func(*models.Post) bool, limit int) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []*models.Post
	for _, post := range s.posts {
		if match(post) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return s.seq[posts[i].ID] > s.seq[posts[j].ID]
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (s *PostStore) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return storage.ErrPostNotFound
	}
	post.Comments = append(post.Comments, comment)
	return nil
}
