package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/middleware"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/services"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// SocialHandler handles follow-graph requests.
type SocialHandler struct {
	social *services.SocialService
}

// NewSocialHandler creates a new social handler.
func NewSocialHandler(social *services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

type followResponse struct {
	Status         string `json:"status"`
	Action         string `json:"action"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}

// Follow handles POST /follow/{user_id}: toggles the edge between the
// authenticated user and the target.
func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	targetID := chi.URLParam(r, "user_id")

	result, err := h.social.ToggleFollow(ctx, claims.UserID, targetID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", claims.UserID).
			Str("target_id", targetID).
			Msg("Follow toggle failed")

		statusCode := http.StatusInternalServerError
		if errors.Is(err, storage.ErrUserNotFound) {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	respondJSON(w, http.StatusOK, followResponse{
		Status:         "success",
		Action:         result.Action,
		FollowerCount:  result.FollowerCount,
		FollowingCount: result.FollowingCount,
	})
}
