package services

import (
	"context"
	"fmt"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// FollowResult reports a toggle outcome. The counts are computed from the
// pre-transaction snapshots adjusted by one, never re-read: good enough for
// a counter display, not for authorization.
type FollowResult struct {
	Action         string `json:"action"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}

// SocialService maintains the follow graph.
type SocialService struct {
	users storage.UserStorage
}

// NewSocialService creates a new social graph service.
func NewSocialService(users storage.UserStorage) *SocialService {
	return &SocialService{users: users}
}

// ToggleFollow flips the actor→target follow edge. Both sides of the edge
// are updated in one transaction; no one-sided follow is ever observable at
// rest.
func (s *SocialService) ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("current user not found: %w", err)
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	following := actor.IsFollowing(targetID)
	if err := s.users.SetFollowEdge(ctx, actorID, targetID, !following); err != nil {
		return nil, fmt.Errorf("failed to update follow edge: %w", err)
	}

	action := "followed"
	delta := 1
	if following {
		action = "unfollowed"
		delta = -1
	}

	return &FollowResult{
		Action:         action,
		FollowerCount:  len(target.Followers) + delta,
		FollowingCount: len(actor.Following) + delta,
	}, nil
}
