package handlers

import (
	"net/http"

	"github.com/fitfriends/backend/internal/leaderboard"
	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
)

// LeaderboardHandler serves the friend comparison view of workout totals.
type LeaderboardHandler struct {
	Leaderboard LeaderboardSource
}

// Get returns summed totals for the user and their direct friends. The
// "metric" query parameter selects the ranking order; totals default to a
// calories ordering when it is absent.
func (h LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	byUser, err := h.Leaderboard.Aggregate(ctx, userID)
	if err != nil {
		logger.Error("leaderboard aggregation failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "leaderboard is currently unavailable"})
		return
	}

	metric := r.URL.Query().Get("metric")
	respondJSON(ctx, w, http.StatusOK, map[string][]models.LeaderboardEntry{
		"leaderboard": leaderboard.Rank(byUser, metric),
	})
}
