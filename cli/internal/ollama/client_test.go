package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_normalizesBaseURL(t *testing.T) {
	t.Parallel()
	c := NewClient("http://localhost:11434/", nil)
	if c.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q, want no trailing slash", c.baseURL)
	}
	if c.BaseURL() != c.baseURL {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}

func TestClient_Check(t *testing.T) {
	t.Parallel()

	validWithModel := `{"models":[{"name":"llama3.2:latest","modified_at":"2024-01-01T00:00:00Z","size":0,"digest":"","details":{}}]}`
	validWithoutModel := `{"models":[{"name":"other:7b","modified_at":"2024-01-01T00:00:00Z","size":0,"digest":"","details":{}}]}`

	tests := []struct {
		name          string
		status        int
		body          string
		model         string
		wantKind      StatusKind
		wantAvailable []string
	}{
		{
			name:     "200_with_model",
			status:   http.StatusOK,
			body:     validWithModel,
			model:    "llama3.2:latest",
			wantKind: StatusConnected,
		},
		{
			name:          "200_without_model",
			status:        http.StatusOK,
			body:          validWithoutModel,
			model:         "llama3.2:latest",
			wantKind:      StatusModelMissing,
			wantAvailable: []string{"other:7b"},
		},
		{
			name:          "200_empty_models",
			status:        http.StatusOK,
			body:          `{"models":[]}`,
			model:         "any",
			wantKind:      StatusModelMissing,
			wantAvailable: []string{},
		},
		{
			name:     "200_invalid_json",
			status:   http.StatusOK,
			body:     `{`,
			model:    "any",
			wantKind: StatusUnreachable,
		},
		{
			name:     "404",
			status:   http.StatusNotFound,
			model:    "any",
			wantKind: StatusUnreachable,
		},
		{
			name:     "500",
			status:   http.StatusInternalServerError,
			model:    "any",
			wantKind: StatusUnreachable,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/tags" {
					t.Errorf("path = %q, want /api/tags", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, srv.Client())
			got := client.Check(context.Background(), tt.model)
			require.Equal(t, tt.wantKind, got.Kind())
			switch s := got.(type) {
			case ModelMissing:
				assert.Equal(t, tt.wantAvailable, s.Available)
			case Unreachable:
				assert.NotEmpty(t, s.Detail)
			case Connected:
				assert.Contains(t, s.Models, tt.model)
			}
		})
	}
}

func TestClient_Models_httpErrorWrapsUnreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL, srv.Client()).Models(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func closedAddr(t *testing.T) string {
	t.Helper()
	// Bind and release a port so nothing is listening.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return addr
}

func TestClient_Check_connectionRefused(t *testing.T) {
	t.Parallel()
	client := NewClient("http://"+closedAddr(t), nil)
	got := client.Check(context.Background(), "any")
	u, ok := got.(Unreachable)
	if !ok {
		t.Fatalf("Check = %#v, want Unreachable", got)
	}
	assert.Contains(t, u.Detail, "ollama serve")
}

func TestClient_Generate_sendsNonStreamingRequest(t *testing.T) {
	t.Parallel()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("%s %s, want POST /api/generate", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"feat: add login\nfeat: add auth","done":true,"total_duration":1500000000,"eval_count":12}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	res, err := client.Generate(context.Background(), "llama3.2:latest", "PROMPT", GenerateOptions{Temperature: 0.7, TopP: 0.9, MaxTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "feat: add login\nfeat: add auth", res.Response)
	assert.Equal(t, 1500*time.Millisecond, res.TotalDuration)
	assert.Equal(t, 12, res.EvalCount)

	assert.Equal(t, "llama3.2:latest", got["model"])
	assert.Equal(t, "PROMPT", got["prompt"])
	assert.Equal(t, false, got["stream"])
	opts, ok := got["options"].(map[string]any)
	require.True(t, ok, "options must be an object")
	assert.Equal(t, 0.7, opts["temperature"])
	assert.Equal(t, 0.9, opts["top_p"])
	assert.Equal(t, float64(300), opts["max_tokens"])
}

func TestClient_Generate_non2xx(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'x' not found"}`))
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL, srv.Client()).Generate(context.Background(), "x", "p", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, err.Error(), "not found")
}

func TestClient_Generate_timeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, srv.Client()).Generate(ctx, "m", "p", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, errors.Is(err, ErrUnreachable))
}

func TestClient_Generate_cancelledIsNotTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient("http://"+closedAddr(t), nil).Generate(ctx, "m", "p", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestClient_Generate_connectionRefused(t *testing.T) {
	t.Parallel()
	_, err := NewClient("http://"+closedAddr(t), nil).Generate(context.Background(), "m", "p", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}
