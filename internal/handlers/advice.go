package handlers

import (
	"errors"
	"net/http"

	"github.com/fitfriends/backend/internal/genai"
	"github.com/fitfriends/backend/internal/logging"
)

// AdviceHandler serves on-demand motivational advice. Every request hits the
// generative model, so the endpoint sits behind a per-user rate limiter.
type AdviceHandler struct {
	Advisor AdviceGenerator
	Limiter RateLimiter
}

// Get generates a fresh piece of advice. Advice is never persisted; two
// consecutive calls may return entirely different content.
func (h AdviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	if !allowRequest(h.Limiter, r, "advice") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many advice requests"})
		return
	}

	advice, err := h.Advisor.Generate(ctx, userID)
	if err != nil {
		if errors.Is(err, genai.ErrRateLimited) {
			respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many advice requests"})
			return
		}
		logger.Error("advice generation failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "advice is currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, advice)
}
