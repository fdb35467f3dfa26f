package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/middleware"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/models"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/services"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage"
)

// CommentHandler handles the comment JSON endpoints.
type CommentHandler struct {
	users    *services.UserService
	comments *services.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(users *services.UserService, comments *services.CommentService) *CommentHandler {
	return &CommentHandler{users: users, comments: comments}
}

type addCommentResponse struct {
	Status  string          `json:"status"`
	Comment *models.Comment `json:"comment"`
}

// AddComment handles POST /add-comment/{post_id}.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	postID := chi.URLParam(r, "post_id")

	user, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		respondError(w, "Failed to add comment", http.StatusInternalServerError)
		return
	}

	comment, err := h.comments.Append(ctx, postID, user, r.FormValue("comment_text"))
	if err != nil {
		if errors.Is(err, services.ErrCommentTooLong) {
			respondError(w, "Comment too long (max 200 chars)", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to add comment")
		respondError(w, "Failed to add comment", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, addCommentResponse{Status: "success", Comment: comment})
}

type commentsResponse struct {
	Status        string           `json:"status"`
	Comments      []models.Comment `json:"comments"`
	TotalComments int              `json:"total_comments"`
}

// GetComments handles GET /get-comments/{post_id}. No auth: comment lists
// are public.
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "post_id")

	comments, total, err := h.comments.List(ctx, postID, 0)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			respondError(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to get comments")
		respondError(w, "Failed to get comments", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, commentsResponse{
		Status:        "success",
		Comments:      comments,
		TotalComments: total,
	})
}
