package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/fitfriends/backend/internal/config"
)

func testConfig(endpoint string) config.ModelConfig {
	return config.ModelConfig{
		Endpoint: endpoint,
		Name:     "test-model",
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	}
}

func TestClientGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  generated text  "}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	text, err := client.Generate(context.Background(), "be helpful", "write a plan")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)

	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "be helpful", gotBody.SystemInstruction.Parts[0].Text)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "write a plan", gotBody.Contents[0].Parts[0].Text)
}

func TestClientGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	_, err := client.Generate(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"invalid model"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	_, err := client.Generate(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid model")
}

func TestClientGenerateEmptyResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"noCandidates", `{"candidates":[]}`},
		{"blankText", `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), nil)

			_, err := client.Generate(context.Background(), "", "prompt")
			require.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestClientGenerateRateLimited(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := NewClient(testConfig(server.URL), limiter)

	_, err := client.Generate(context.Background(), "", "prompt")
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "", "prompt")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls, "rejected calls must not reach the upstream")
}

func TestNewClientNormalizesEndpoint(t *testing.T) {
	client := NewClient(config.ModelConfig{Endpoint: "example.com/", Name: "m"}, nil)
	assert.Equal(t, "https://example.com", client.endpoint)

	client = NewClient(config.ModelConfig{Endpoint: "http://localhost:8081", Name: "m"}, nil)
	assert.Equal(t, "http://localhost:8081", client.endpoint)
}
