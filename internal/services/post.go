package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// timelineLimit caps every feed query.
const timelineLimit = 50

// PostService handles post creation and time-ordered retrieval.
type PostService struct {
	posts storage.PostStorage
	users storage.UserStorage
	now   func() time.Time
}

// NewPostService creates a new post service.
func NewPostService(posts storage.PostStorage, users storage.UserStorage) *PostService {
	return &PostService{posts: posts, users: users, now: time.Now}
}

// Create inserts a new post for the author with a server-assigned timestamp
// and empty like/comment lists. The author's username is captured as of now
// and not kept in sync afterwards.
func (s *PostService) Create(ctx context.Context, author *models.User, caption, imageURL string) (*models.Post, error) {
	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    author.ID,
		Username:  author.Username,
		Caption:   caption,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
		Likes:     []string{},
		Comments:  []models.Comment{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// Timeline returns up to 50 posts from the user and everyone they follow,
// newest first, each annotated with a freshly fetched author summary.
func (s *PostService) Timeline(ctx context.Context, user *models.User) ([]*models.TimelinePost, error) {
	authorIDs := append(append([]string(nil), user.Following...), user.ID)

	posts, err := s.posts.ListByAuthors(ctx, authorIDs, timelineLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}

	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, post := range posts {
		if !seen[post.UserID] {
			seen[post.UserID] = true
			ids = append(ids, post.UserID)
		}
	}
	authors, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load post authors: %w", err)
	}

	timeline := make([]*models.TimelinePost, 0, len(posts))
	for _, post := range posts {
		entry := &models.TimelinePost{Post: *post}
		if author, ok := authors[post.UserID]; ok {
			entry.Author = &models.UserSummary{
				ID:         author.ID,
				Username:   author.Username,
				ProfilePic: author.ProfilePic,
			}
		}
		timeline = append(timeline, entry)
	}
	return timeline, nil
}

// PostsForUsername returns up to 50 posts filtered on the denormalized
// username column, newest first. A renamed author's old posts keep the old
// username and are not re-joined here.
func (s *PostService) PostsForUsername(ctx context.Context, username string) ([]*models.Post, error) {
	posts, err := s.posts.ListByUsername(ctx, username, timelineLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for %s: %w", username, err)
	}
	return posts, nil
}
