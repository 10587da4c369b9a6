package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/repositories"
)

// Friend search classification states. A lookup result is exactly one of
// these.
const (
	SearchNotFound      = "not_found"
	SearchSelf          = "self"
	SearchAlreadyFriend = "already_friends"
	SearchNotYetFriend  = "not_yet_friends"
)

// FriendHandler serves the friend system: search, requests, accept/decline,
// and unfriending.
type FriendHandler struct {
	Friends  FriendStore
	Profiles ProfileStore
	// ProfileCache is invalidated for both users whenever a mutation changes
	// the friend relation. Optional; nil when profiles are not cached.
	ProfileCache ProfileInvalidator
	NowFunc      func() time.Time
}

// List handles GET /api/v1/users/{userID}/friends.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	ids, err := h.Friends.ListFriendIDs(ctx, userID)
	if err != nil {
		logger.Error("list friends failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friends are currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]string{"friends": ids})
}

type searchResponse struct {
	Status  string           `json:"status"`
	Profile *profileResponse `json:"profile,omitempty"`
}

// Search handles GET /api/v1/users/{userID}/friends/search?username=...
// and classifies the candidate as exactly one of not_found, self,
// already_friends, or not_yet_friends.
func (h FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}

	candidate, err := h.Profiles.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusOK, searchResponse{Status: SearchNotFound})
			return
		}
		logger.Error("friend search failed", "username", username, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "search is currently unavailable"})
		return
	}

	if candidate.ID == userID {
		respondJSON(ctx, w, http.StatusOK, searchResponse{Status: SearchSelf})
		return
	}

	friends, err := h.Friends.AreFriends(ctx, userID, candidate.ID)
	if err != nil {
		logger.Error("friendship check failed", "userId", userID, "candidateId", candidate.ID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "search is currently unavailable"})
		return
	}

	status := SearchNotYetFriend
	if friends {
		status = SearchAlreadyFriend
	}

	profile := toProfileResponse(candidate)
	respondJSON(ctx, w, http.StatusOK, searchResponse{Status: status, Profile: &profile})
}

type pendingRequestResponse struct {
	RequesterID       string `json:"requester_id"`
	RequesterName     string `json:"requester_name"`
	RequesterUsername string `json:"requester_username"`
	RequestedAt       string `json:"requested_at"`
}

type sendRequestBody struct {
	Username string `json:"username"`
}

// Requests handles GET (list pending, most recent first) and POST (send) on
// /api/v1/users/{userID}/friends/requests.
func (h FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listRequests(w, r)
	case http.MethodPost:
		h.sendRequest(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h FriendHandler) listRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	pending, err := h.Friends.ListPending(ctx, userID)
	if err != nil {
		logger.Error("list friend requests failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friend requests are currently unavailable"})
		return
	}

	out := make([]pendingRequestResponse, 0, len(pending))
	for _, req := range pending {
		out = append(out, pendingRequestResponse{
			RequesterID:       req.RequesterID,
			RequesterName:     req.RequesterName,
			RequesterUsername: req.RequesterUsername,
			RequestedAt:       req.RequestedAt.UTC().Format(time.RFC3339),
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]pendingRequestResponse{"requests": out})
}

func (h FriendHandler) sendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	var body sendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid friend request payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}

	receiver, err := h.Profiles.FindByUsername(ctx, body.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such user"})
			return
		}
		logger.Error("friend request lookup failed", "username", body.Username, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friend requests are currently unavailable"})
		return
	}

	request := models.FriendRequest{
		RequesterID: userID,
		ReceiverID:  receiver.ID,
		RequestedAt: h.now(),
	}

	if err := h.Friends.CreateRequest(ctx, request); err != nil {
		switch {
		case errors.Is(err, repositories.ErrValidation):
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "friend request rejected"})
		case errors.Is(err, repositories.ErrConflict):
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "friend request already exists"})
		case errors.Is(err, repositories.ErrNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such user"})
		default:
			logger.Error("create friend request failed", "userId", userID, "receiverId", receiver.ID, "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friend requests are currently unavailable"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"status": "request sent"})
}

type respondRequestBody struct {
	RequesterID string `json:"requester_id"`
	Action      string `json:"action"`
}

// Respond handles POST /api/v1/users/{userID}/friends/respond with an
// accept or decline action on a pending incoming request.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	var body respondRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if body.RequesterID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "requester_id is required"})
		return
	}

	var err error
	switch body.Action {
	case "accept":
		err = h.Friends.Accept(ctx, body.RequesterID, userID)
	case "decline":
		err = h.Friends.Decline(ctx, body.RequesterID, userID)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "action must be accept or decline"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such friend request"})
		case errors.Is(err, repositories.ErrConflict):
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "already friends"})
		default:
			logger.Error("respond to friend request failed", "userId", userID, "requesterId", body.RequesterID, "action", body.Action, "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friend requests are currently unavailable"})
		}
		return
	}

	if body.Action == "accept" {
		h.invalidateProfiles(body.RequesterID, userID)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": body.Action + "ed"})
}

type removeFriendBody struct {
	Username string `json:"username"`
}

// Remove handles POST /api/v1/users/{userID}/friends/remove, deleting an
// existing friendship by username lookup.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	var body removeFriendBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid remove payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}

	friend, err := h.Profiles.FindByUsername(ctx, body.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such user"})
			return
		}
		logger.Error("remove friend lookup failed", "username", body.Username, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friends are currently unavailable"})
		return
	}

	if err := h.Friends.Remove(ctx, userID, friend.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not friends"})
			return
		}
		logger.Error("remove friendship failed", "userId", userID, "friendId", friend.ID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "friends are currently unavailable"})
		return
	}

	h.invalidateProfiles(userID, friend.ID)

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h FriendHandler) invalidateProfiles(userIDs ...string) {
	if h.ProfileCache == nil {
		return
	}
	for _, id := range userIDs {
		h.ProfileCache.Invalidate(id)
	}
}

func (h FriendHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
