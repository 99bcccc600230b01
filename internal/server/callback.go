package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// CallbackResult is what the provider redirect carried.
type CallbackResult struct {
	Redirect models.Redirect
	err      error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler receives the provider redirect at the client page path.
//
// It accepts exactly one request and delivers its code and state on [CallbackHandler.Result].
// The state is not checked here; the backend verifies it during the exchange.
type CallbackHandler struct {
	path        string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler serving path, "/callback" when empty.
func NewCallbackHandler(path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{path: path, resultChan: make(chan CallbackResult, 1)}
}

// Routes returns the HTTP routes this handler serves. The provider redirect is always a GET.
func (h *CallbackHandler) Routes() []string {
	return []string{http.MethodGet + " " + h.path}
}

// ServeHTTP captures the redirect parameters once.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	redirect := models.RedirectFrom(r.URL)
	if !redirect.Present() {
		q := r.URL.Query()
		err := fmt.Errorf("%w: %s %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))
		if q.Get("error") == "" {
			err = fmt.Errorf("%w: redirect is missing code or state", shared.ErrAuthFailed)
		}
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	h.Send(CallbackResult{Redirect: redirect})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>tdx</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #24292f; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authorization received</h1>
        <p>Return to the terminal to finish signing in. You can close this window.</p>
    </div>
</body>
</html>
`)
}

// Send delivers the result (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}
