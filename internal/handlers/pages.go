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

// PageHandler serves the rendered HTML surface.
type PageHandler struct {
	users *services.UserService
	posts *services.PostService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(users *services.UserService, posts *services.PostService) *PageHandler {
	return &PageHandler{users: users, posts: posts}
}

type timelinePage struct {
	UserInfo *models.User
	Posts    []*models.TimelinePost
}

// Home handles GET /. Anonymous visitors get the page with no posts; signed
// in users get their timeline.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		renderPage(w, "main.html", timelinePage{})
		return
	}

	user, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	posts, err := h.posts.Timeline(ctx, user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load timeline")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "main.html", timelinePage{UserInfo: user, Posts: posts})
}

// RegisterUser handles POST /register-user: the login flow calls it once a
// token cookie is set, so the user record exists before any other page is
// hit.
func (h *PageHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	if _, err := h.users.GetOrCreate(ctx, claims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to register user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

type profilePage struct {
	CurrentUser  *models.User
	ProfileUser  *models.User
	Posts        []*models.Post
	IsOwnProfile bool
	IsFollowing  bool
}

// Profile handles GET /profile/{username}.
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	username := chi.URLParam(r, "username")

	current, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	profile, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to load profile")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	posts, err := h.posts.PostsForUsername(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to load posts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "profile.html", profilePage{
		CurrentUser:  current,
		ProfileUser:  profile,
		Posts:        posts,
		IsOwnProfile: current.Username == profile.Username,
		IsFollowing:  contains(profile.Followers, claims.UserID),
	})
}

type searchPage struct {
	CurrentUser *models.User
	Query       string
	Results     []*models.User
}

// Search handles GET /search?q=.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	query := r.URL.Query().Get("q")

	current, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	results, err := h.users.Search(ctx, query, claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Failed to search users")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "search.html", searchPage{CurrentUser: current, Query: query, Results: results})
}

type userListPage struct {
	CurrentUser *models.User
	ProfileUser *models.User
	Users       []*models.User
	ListType    string
}

// Followers handles GET /followers/{username}.
func (h *PageHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, "followers")
}

// Following handles GET /following/{username}.
func (h *PageHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, "following")
}

func (h *PageHandler) userList(w http.ResponseWriter, r *http.Request, listType string) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	username := chi.URLParam(r, "username")

	current, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	profile, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to load profile")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ids := profile.Followers
	if listType == "following" {
		ids = profile.Following
	}
	users, err := h.users.ListByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to load user list")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPage(w, "user_list.html", userListPage{
		CurrentUser: current,
		ProfileUser: profile,
		Users:       users,
		ListType:    listType,
	})
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
