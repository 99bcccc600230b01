package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/tdx/internal/models"
)

// Call is one request observed by [Backend].
type Call struct {
	Method  string
	Path    string
	Body    string
	Header  http.Header
	Session string // value of the sessionid cookie, if sent
}

// Key returns "METHOD /path".
func (c Call) Key() string {
	return c.Method + " " + c.Path
}

// Backend is an in-process fake of the todo backend.
//
// It keeps the item list and the valid session in memory, records every call and can be told to
// fail a route with a fixed status.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	calls       []Call
	failures    map[string]int
	items       []models.TodoItem
	nextID      int64
	user        models.User
	userCount   int
	redirectURL string
	code        string
	session     string
}

// NewBackend starts a [Backend] that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		failures:    make(map[string]int),
		nextID:      1,
		user:        models.User{Username: "octocat", Email: "octocat@example.com"},
		userCount:   1,
		redirectURL: "https://github.com/login/oauth/authorize?client_id=abc&state=xyz",
		code:        "valid-code",
		session:     "server-session-token",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", b.root)
	mux.HandleFunc("GET /user/{$}", b.authed(b.info))
	mux.HandleFunc("GET /user/auth/github/init", b.githubInit)
	mux.HandleFunc("POST /user/auth/github/success", b.githubSuccess)
	mux.HandleFunc("DELETE /user/logout", b.authed(b.logout))
	mux.HandleFunc("GET /todo/{$}", b.authed(b.getItems))
	mux.HandleFunc("POST /todo/set", b.authed(b.setItem))
	mux.HandleFunc("PATCH /todo/update/{id}", b.authed(b.updateItem))
	mux.HandleFunc("DELETE /todo/delete/{id}", b.authed(b.deleteItem))

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Fail makes every request to "METHOD /path" answer with status. Zero clears it.
func (b *Backend) Fail(key string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, key)
		return
	}
	b.failures[key] = status
}

// SetItems replaces the stored items.
func (b *Backend) SetItems(items ...models.TodoItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]models.TodoItem{}, items...)
	for _, it := range items {
		if it.ID >= b.nextID {
			b.nextID = it.ID + 1
		}
	}
}

// Items returns a copy of the stored items.
func (b *Backend) Items() []models.TodoItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.TodoItem{}, b.items...)
}

// SetUserCount sets the value served by GET /.
func (b *Backend) SetUserCount(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCount = n
}

// SetRedirectURL sets the redirect_url served by the login init endpoint.
func (b *Backend) SetRedirectURL(u string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.redirectURL = u
}

// Code is the authorization code the fake accepts.
func (b *Backend) Code() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.code
}

// Session is the token the fake issues and accepts.
func (b *Backend) Session() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// User returns the profile served by GET /user/.
func (b *Backend) User() models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.user
}

// Calls returns every recorded request in arrival order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Count returns how many requests matched "METHOD /path".
func (b *Backend) Count(key string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Key() == key {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		call := Call{Method: r.Method, Path: r.URL.Path, Body: string(body), Header: r.Header.Clone()}
		if c, err := r.Cookie("sessionid"); err == nil {
			call.Session = c.Value
		}

		b.mu.Lock()
		b.calls = append(b.calls, call)
		status := b.failures[call.Key()]
		b.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("sessionid")
		if err != nil || c.Value != b.Session() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *Backend) root(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	n := b.userCount
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"user_count": n})
}

func (b *Backend) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.User())
}

func (b *Backend) githubInit(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u := b.redirectURL
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"redirect_url": u})
}

func (b *Backend) githubSuccess(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code      string `json:"code"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CSRFToken == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Code != b.Code() {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "sessionid",
		Value:    b.Session(),
		MaxAge:   60 * 60 * 6,
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
	})
	w.WriteHeader(http.StatusOK)
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.session = "invalidated-" + b.session
	b.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (b *Backend) getItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Items())
}

func (b *Backend) setItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.items = append(b.items, models.TodoItem{ID: b.nextID, Content: body.Content})
	b.nextID++
	b.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (b *Backend) updateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Done bool `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i].Done = body.Done
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.WriteHeader(http.StatusInternalServerError)
}

func (b *Backend) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.WriteHeader(http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("fake backend: %v", err))
	}
}
