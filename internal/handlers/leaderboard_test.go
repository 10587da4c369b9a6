package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitfriends/backend/internal/models"
)

type fakeLeaderboardSource struct {
	entries map[string]models.LeaderboardEntry
	err     error
}

func (s *fakeLeaderboardSource) Aggregate(context.Context, string) (map[string]models.LeaderboardEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func TestLeaderboardHandlerGet(t *testing.T) {
	source := &fakeLeaderboardSource{entries: map[string]models.LeaderboardEntry{
		"user-1": {UserID: "user-1", Name: "Remi", CaloriesBurned: 900, Steps: 11900, Distance: 9.3},
		"user-2": {UserID: "user-2", Name: "Blake", CaloriesBurned: 700, Steps: 12400, Distance: 10},
	}}
	handler := LeaderboardHandler{Leaderboard: source}

	req := newRequest(http.MethodGet, "/api/v1/users/user-1/leaderboard", "user-1", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp map[string][]models.LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	board := resp["leaderboard"]
	if len(board) != 2 {
		t.Fatalf("expected 2 entries got %d", len(board))
	}
	// default ordering is calories, descending
	if board[0].UserID != "user-1" || board[1].UserID != "user-2" {
		t.Fatalf("unexpected ordering: %+v", board)
	}
}

func TestLeaderboardHandlerGetStepsMetric(t *testing.T) {
	source := &fakeLeaderboardSource{entries: map[string]models.LeaderboardEntry{
		"user-1": {UserID: "user-1", CaloriesBurned: 900, Steps: 11900},
		"user-2": {UserID: "user-2", CaloriesBurned: 700, Steps: 12400},
	}}
	handler := LeaderboardHandler{Leaderboard: source}

	req := newRequest(http.MethodGet, "/api/v1/users/user-1/leaderboard?metric=steps", "user-1", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp map[string][]models.LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	board := resp["leaderboard"]
	if board[0].UserID != "user-2" {
		t.Fatalf("expected steps ordering, got %+v", board)
	}
}

func TestLeaderboardHandlerGetFailures(t *testing.T) {
	handler := LeaderboardHandler{Leaderboard: &fakeLeaderboardSource{err: errors.New("db down")}}

	req := newRequest(http.MethodGet, "/api/v1/users/user-1/leaderboard", "user-1", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected bad gateway got %d", rec.Code)
	}

	req = newRequest(http.MethodPost, "/api/v1/users/user-1/leaderboard", "user-1", nil)
	rec = httptest.NewRecorder()
	handler.Get(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed got %d", rec.Code)
	}
}
