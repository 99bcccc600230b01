package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/tdx/internal/shared"
	tu "github.com/desertthunder/tdx/internal/testing"
	"golang.org/x/time/rate"
)

func newTestAPI(baseURL string, client *http.Client) *APIService {
	return NewAPIService(baseURL, client, 0, shared.NewLogger(&bytes.Buffer{}))
}

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := newTestAPI("http://example.com/", customClient)

			if srv.BaseURL() != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.BaseURL())
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := newTestAPI("", nil)

			if srv.BaseURL() != "http://localhost:8080" {
				t.Errorf("expected default baseURL 'http://localhost:8080', got %s", srv.BaseURL())
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := newTestAPI("http://example.com", nil)

			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Rate Limit", func(t *testing.T) {
			if got := newTestAPI("", nil).limiter.Limit(); got != rate.Inf {
				t.Errorf("expected no pacing by default, got %v", got)
			}
			if got := NewAPIService("", nil, 5, nil).limiter.Limit(); got != rate.Limit(5) {
				t.Errorf("expected limit 5, got %v", got)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/test" {
					t.Errorf("expected path '/test', got %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "" {
					t.Errorf("expected no Content-Type on GET, got %s", r.Header.Get("Content-Type"))
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected X-Request-ID header")
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			}))
			defer server.Close()

			srv := newTestAPI(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}

			var body map[string]string
			if err := resp.Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body["status"] != "success" {
				t.Errorf("expected status 'success', got %v", body)
			}
		})

		t.Run("Successful Request With Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			srv := newTestAPI(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
			if err := resp.Decode(&map[string]any{}); err == nil {
				t.Error("expected decode error for non-JSON body")
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := newTestAPI("http://example.com", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil {
				t.Fatal("expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := newTestAPI("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil {
				t.Fatal("expected error for failed request")
			}
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected network failure, got %v", err)
			}
			if shared.Classify(err) != shared.NetworkFailure {
				t.Errorf("expected NetworkFailure kind, got %v", shared.Classify(err))
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := newTestAPI("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil {
				t.Fatal("expected error for failed body read")
			}
			if !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected network failure, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := newTestAPI(server.URL, nil)
			_, err := srv.Get(ctx, "/test")

			if err == nil {
				t.Error("expected error for canceled context")
			}
		})

		t.Run("Response Headers Are Preserved", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Custom-Header", "test-value")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			}))
			defer server.Close()

			srv := newTestAPI(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.Headers.Get("X-Custom-Header") != "test-value" {
				t.Errorf("expected custom header 'test-value', got %s", resp.Headers.Get("X-Custom-Header"))
			}
		})
	})

	t.Run("Non-Success Status", func(t *testing.T) {
		tc := []struct {
			name   string
			status int
		}{
			{"Unauthorized", http.StatusUnauthorized},
			{"Not Found", http.StatusNotFound},
			{"Server Error", http.StatusInternalServerError},
			{"Redirect Not Followed", http.StatusNotModified},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte("  details  "))
				}))
				defer server.Close()

				srv := newTestAPI(server.URL, nil)
				_, err := srv.Patch(context.Background(), "/todo/update/1", map[string]bool{"done": true})

				if !errors.Is(err, shared.ErrHTTPStatus) {
					t.Fatalf("expected ErrHTTPStatus, got %v", err)
				}

				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("expected *HTTPError, got %T", err)
				}
				if httpErr.Status != tt.status || httpErr.Method != http.MethodPatch || httpErr.Path != "/todo/update/1" {
					t.Errorf("unexpected error fields: %+v", httpErr)
				}
				if tt.status != http.StatusNotModified && httpErr.Context != "details" {
					t.Errorf("expected trimmed context 'details', got %q", httpErr.Context)
				}
				if shared.Classify(err) != shared.HTTPStatusFailure {
					t.Errorf("expected HTTPStatusFailure kind, got %v", shared.Classify(err))
				}
			})
		}
	})

	t.Run("Mutations", func(t *testing.T) {
		tc := []struct {
			name     string
			method   string
			call     func(*APIService) (*APIResponse, error)
			wantBody string
		}{
			{
				name:     "Post",
				method:   http.MethodPost,
				call:     func(a *APIService) (*APIResponse, error) { return a.Post(context.Background(), "/todo/set", map[string]string{"content": "milk"}) },
				wantBody: `{"content":"milk"}`,
			},
			{
				name:     "Patch",
				method:   http.MethodPatch,
				call:     func(a *APIService) (*APIResponse, error) { return a.Patch(context.Background(), "/todo/update/3", map[string]bool{"done": true}) },
				wantBody: `{"done":true}`,
			},
			{
				name:   "Delete",
				method: http.MethodDelete,
				call:   func(a *APIService) (*APIResponse, error) { return a.Delete(context.Background(), "/todo/delete/3") },
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Method != tt.method {
						t.Errorf("expected %s method, got %s", tt.method, r.Method)
					}
					if r.Header.Get("Content-Type") != "application/json" {
						t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
					}

					body, _ := io.ReadAll(r.Body)
					if string(body) != tt.wantBody {
						t.Errorf("expected body %q, got %q", tt.wantBody, string(body))
					}
					w.WriteHeader(http.StatusCreated)
				}))
				defer server.Close()

				resp, err := tt.call(newTestAPI(server.URL, nil))
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if resp.StatusCode != http.StatusCreated {
					t.Errorf("expected status 201, got %d", resp.StatusCode)
				}
			})
		}

		t.Run("Unencodable Body", func(t *testing.T) {
			srv := newTestAPI("http://example.com", nil)
			_, err := srv.Post(context.Background(), "/todo/set", map[string]any{"bad": make(chan int)})

			if err == nil || !strings.Contains(err.Error(), "failed to encode request body") {
				t.Errorf("expected encode error, got %v", err)
			}
		})
	})

	t.Run("Request IDs Are Unique", func(t *testing.T) {
		seen := map[string]bool{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen[r.Header.Get("X-Request-ID")] = true
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		srv := newTestAPI(server.URL, nil)
		for range 3 {
			if _, err := srv.Get(context.Background(), "/"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 distinct request ids, got %d", len(seen))
		}
	})
}
