// REST client for the todo backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:8080"

// APIService performs JSON requests against the backend.
//
// Credentials travel as cookies: the [http.Client] is expected to carry the session jar, so the
// opaque session token is forwarded and Set-Cookie responses are stored without this type
// touching either.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service instance.
//
// A non-positive rps disables pacing. A nil logger writes to stderr.
func NewAPIService(baseURL string, client *http.Client, rps float64, logger *log.Logger) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// BaseURL returns the backend origin requests are sent to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Request(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with body encoded as JSON.
func (a *APIService) Post(ctx context.Context, path string, body any) (*APIResponse, error) {
	return a.Request(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH request with body encoded as JSON.
func (a *APIService) Patch(ctx context.Context, path string, body any) (*APIResponse, error) {
	return a.Request(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.Request(ctx, http.MethodDelete, path, nil)
}

// Request sends one request and returns the response when its status is 2xx.
//
// Failing to reach the server yields an error wrapping [shared.ErrNetwork]; any other status
// yields an [HTTPError].
func (a *APIService) Request(ctx context.Context, method, path string, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodDelete:
		req.Header.Set("Content-Type", "application/json")
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrNetwork, err)
	}

	logger := a.logger.With("method", method, "path", path, "request_id", requestID)
	logger.Debug("sending request")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	logger.Debug("received response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Method: method, Path: path, Context: excerpt(data)}
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func excerpt(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
