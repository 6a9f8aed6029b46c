// Package ollama provides an HTTP client for the Ollama API (model list,
// availability check, non-streaming generation).
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const _probeTimeout = 5 * time.Second

// ErrUnreachable indicates the Ollama server could not be reached (connection refused or non-2xx).
var ErrUnreachable = errors.New("ollama server unreachable")

// ErrTimeout indicates a request did not complete before its deadline.
var ErrTimeout = errors.New("ollama request timed out")

// Client calls the Ollama API. Zero value is not valid; use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an Ollama client. baseURL is the API root (e.g. http://localhost:11434).
// If httpClient is nil, a client without a global timeout is used; deadlines
// come from the context passed to each call.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists installed model names via GET /api/tags.
// On connection/HTTP error returns ErrUnreachable (via %w).
func (c *Client) Models(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ollama tags request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", errors.Join(ErrUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: %w: HTTP %d", ErrUnreachable, resp.StatusCode)
	}
	var body tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("ollama tags: parse response: %w", err)
	}
	names := make([]string, 0, len(body.Models))
	for _, m := range body.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Check probes the server and reports whether model is installed. It never
// returns an error: every failure is folded into an Unreachable status.
func (c *Client) Check(ctx context.Context, model string) Status {
	ctx, cancel := context.WithTimeout(ctx, _probeTimeout)
	defer cancel()
	names, err := c.Models(ctx)
	if err != nil {
		return Unreachable{Detail: describe(err)}
	}
	for _, n := range names {
		if n == model {
			return Connected{Models: names}
		}
	}
	return ModelMissing{Available: names}
}

// GenerateOptions are the model runtime options sent with /api/generate.
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type generateResponse struct {
	Response      string `json:"response"`
	TotalDuration int64  `json:"total_duration"`
	EvalCount     int    `json:"eval_count"`
}

// GenerateResult is the complete (non-streamed) model output.
type GenerateResult struct {
	Response      string
	TotalDuration time.Duration
	EvalCount     int
}

// Generate sends prompt to model with stream=false and returns the single
// response string. The deadline is taken from ctx; exceeding it returns
// ErrTimeout. Connection failures and non-2xx statuses return ErrUnreachable.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	payload, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false, Options: opts})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ollama generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("ollama generate: %w", errors.Join(ErrTimeout, err))
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ollama generate: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ollama generate: %w", errors.Join(ErrUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama generate: %w: HTTP %d: %s", ErrUnreachable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("ollama generate: %w", errors.Join(ErrTimeout, err))
		}
		return nil, fmt.Errorf("ollama generate: parse response: %w", err)
	}
	return &GenerateResult{
		Response:      body.Response,
		TotalDuration: time.Duration(body.TotalDuration),
		EvalCount:     body.EvalCount,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// describe turns a probe error into the detail shown to the user.
func describe(err error) string {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "cannot connect to Ollama (is 'ollama serve' running?)"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Ollama did not answer within " + _probeTimeout.String()
	}
	return err.Error()
}
