package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/repositories"
)

// PostHandler serves social post reads and writes.
type PostHandler struct {
	Posts   PostStore
	NowFunc func() time.Time
}

type postResponse struct {
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Username  string `json:"username"`
	UserImage string `json:"user_image"`
}

type createPostBody struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

// Handle serves GET (list) and POST (create) on /api/v1/users/{userID}/posts.
func (h PostHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// list returns the user's posts. An unknown user yields an empty list, never
// null and never an error.
func (h PostHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	posts, err := h.Posts.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("list posts failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "posts are currently unavailable"})
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, postResponse{
			PostID:    post.ID,
			UserID:    post.AuthorID,
			Timestamp: post.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			Content:   post.Content,
			Image:     post.Image,
			Username:  post.Username,
			UserImage: post.UserImage,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]postResponse{"posts": out})
}

func (h PostHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	var body createPostBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid post payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	post := models.Post{
		ID:        uuid.NewString(),
		AuthorID:  userID,
		CreatedAt: h.now(),
		Content:   body.Content,
		Image:     body.Image,
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such user"})
			return
		}
		logger.Error("create post failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "posts are currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"post_id": post.ID})
}

func (h PostHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
