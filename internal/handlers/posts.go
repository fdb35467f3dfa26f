package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/media"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/middleware"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/services"
)

// maxUploadSize bounds the multipart form held in memory.
const maxUploadSize = 32 << 20

// PostHandler handles post creation.
type PostHandler struct {
	users    *services.UserService
	posts    *services.PostService
	uploader media.Uploader
}

// NewPostHandler creates a new post handler.
func NewPostHandler(users *services.UserService, posts *services.PostService, uploader media.Uploader) *PostHandler {
	return &PostHandler{users: users, posts: posts, uploader: uploader}
}

type createPostPage struct {
	Error string
}

// CreatePostForm handles GET /create-post.
func (h *PostHandler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "create_post.html", createPostPage{
		Error: r.URL.Query().Get("error"),
	})
}

// CreatePost handles POST /create-post: uploads the image, inserts the post
// and redirects to the author's profile.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	user, err := h.users.GetOrCreate(ctx, claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Redirect(w, r, "/create-post?error=invalid_image", http.StatusFound)
		return
	}
	caption := r.FormValue("caption")

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Redirect(w, r, "/create-post?error=invalid_image", http.StatusFound)
		return
	}
	defer file.Close()

	imageURL, err := h.uploader.Upload(ctx, file, header.Filename,
		header.Header.Get("Content-Type"), user.ID, media.PurposePosts)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			http.Redirect(w, r, "/create-post?error=invalid_image", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to upload image")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	post, err := h.posts.Create(ctx, user, caption, imageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create post")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("post_id", post.ID).
		Msg("Post created")

	http.Redirect(w, r, "/profile/"+user.Username, http.StatusFound)
}
