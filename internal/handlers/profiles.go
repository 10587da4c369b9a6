package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/repositories"
)

// ProfileHandler serves user profile reads.
type ProfileHandler struct {
	Profiles ProfileStore
}

type profileResponse struct {
	UserID       string   `json:"user_id"`
	FullName     string   `json:"full_name"`
	Username     string   `json:"username"`
	DateOfBirth  string   `json:"date_of_birth"`
	ProfileImage string   `json:"profile_image"`
	Friends      []string `json:"friends"`
}

// Get handles GET /api/v1/users/{userID}/profile. An unknown user is an
// empty 404 result, never a raised error.
func (h ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	userID := r.PathValue("userID")
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user id is required"})
		return
	}

	user, err := h.Profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]any{})
			return
		}
		logger.Error("profile lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "profile is currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, toProfileResponse(user))
}

func toProfileResponse(user models.User) profileResponse {
	friends := user.Friends
	if friends == nil {
		friends = []string{}
	}
	return profileResponse{
		UserID:       user.ID,
		FullName:     user.Name,
		Username:     user.Username,
		DateOfBirth:  user.DateOfBirth.Format(time.DateOnly),
		ProfileImage: user.ProfileImage,
		Friends:      friends,
	}
}
