package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/repositories"
)

type fakePostStore struct {
	posts     []models.Post
	listErr   error
	createErr error
}

func (s *fakePostStore) ListForUser(_ context.Context, userID string) ([]models.Post, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Post, 0)
	for _, post := range s.posts {
		if post.AuthorID == userID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *fakePostStore) Create(_ context.Context, post models.Post) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.posts = append(s.posts, post)
	return nil
}

func TestPostHandlerList(t *testing.T) {
	store := &fakePostStore{posts: []models.Post{
		{
			ID:        "post-1",
			AuthorID:  "user-1",
			CreatedAt: time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC),
			Content:   "Morning run done.",
			Username:  "remi",
			UserImage: "https://cdn.example.com/remi.png",
		},
		{ID: "post-2", AuthorID: "user-2", Content: "not mine"},
	}}
	handler := PostHandler{Posts: store}

	req := newRequest(http.MethodGet, "/api/v1/users/user-1/posts", "user-1", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp map[string][]postResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	posts := resp["posts"]
	if len(posts) != 1 {
		t.Fatalf("expected 1 post got %d", len(posts))
	}
	if posts[0].PostID != "post-1" || posts[0].Username != "remi" {
		t.Fatalf("unexpected post payload: %+v", posts[0])
	}
	if posts[0].Timestamp != "2025-03-01 09:30:00" {
		t.Fatalf("unexpected timestamp format: %q", posts[0].Timestamp)
	}
}

func TestPostHandlerListEmpty(t *testing.T) {
	handler := PostHandler{Posts: &fakePostStore{}}

	req := newRequest(http.MethodGet, "/api/v1/users/user-9/posts", "user-9", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp map[string][]postResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp["posts"] == nil {
		t.Fatalf("expected empty list, got null")
	}
}

func TestPostHandlerCreate(t *testing.T) {
	store := &fakePostStore{}
	now := time.Date(2025, time.March, 2, 8, 0, 0, 0, time.UTC)
	handler := PostHandler{Posts: store, NowFunc: func() time.Time { return now }}

	body := []byte(`{"content":"Hit a new PB today","image":"https://cdn.example.com/pb.jpg"}`)
	req := newRequest(http.MethodPost, "/api/v1/users/user-1/posts", "user-1", body)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}

	if len(store.posts) != 1 {
		t.Fatalf("expected post to be stored")
	}
	stored := store.posts[0]
	if stored.AuthorID != "user-1" || stored.Content != "Hit a new PB today" {
		t.Fatalf("unexpected stored post: %+v", stored)
	}
	if stored.ID == "" {
		t.Fatalf("expected generated post id")
	}
	if !stored.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt to use NowFunc")
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["post_id"] != stored.ID {
		t.Fatalf("expected response id %q got %q", stored.ID, resp["post_id"])
	}
}

func TestPostHandlerCreateFailures(t *testing.T) {
	cases := []struct {
		name       string
		store      *fakePostStore
		body       []byte
		wantStatus int
	}{
		{"badJSON", &fakePostStore{}, []byte("{"), http.StatusBadRequest},
		{"unknownUser", &fakePostStore{createErr: repositories.ErrNotFound}, []byte(`{"content":"x"}`), http.StatusNotFound},
		{"storeDown", &fakePostStore{createErr: errors.New("boom")}, []byte(`{"content":"x"}`), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := PostHandler{Posts: tc.store}
			req := newRequest(http.MethodPost, "/api/v1/users/user-1/posts", "user-1", tc.body)
			rec := httptest.NewRecorder()

			handler.Handle(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestPostHandlerMethodNotAllowed(t *testing.T) {
	handler := PostHandler{Posts: &fakePostStore{}}

	req := newRequest(http.MethodDelete, "/api/v1/users/user-1/posts", "user-1", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed got %d", rec.Code)
	}
}
