package auth

import (
	"net/url"
	"sync"
)

// Location is the page address: what the user sees in the address bar and where navigation goes.
type Location interface {
	// URL returns the current address.
	URL() *url.URL
	// Replace rewrites the current address without navigating.
	Replace(u *url.URL)
	// Assign navigates away to target.
	Assign(target string) error
	// Reload discards the page so the next load re-evaluates from scratch.
	Reload()
}

// Address is an in-process [Location].
//
// Navigation is delegated to navigate (the CLI opens the system browser); a reload is only
// recorded and the owner builds the next page.
type Address struct {
	mu       sync.Mutex
	current  url.URL
	navigate func(string) error
	assigned string
	reloaded bool
}

var _ Location = (*Address)(nil)

// NewAddress creates an [Address] at u. A nil navigate only records the target.
func NewAddress(u *url.URL, navigate func(string) error) *Address {
	a := &Address{navigate: navigate}
	if u != nil {
		a.current = *u
	}
	return a
}

func (a *Address) URL() *url.URL {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := a.current
	return &u
}

func (a *Address) Replace(u *url.URL) {
	if u == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = *u
}

func (a *Address) Assign(target string) error {
	if a.navigate != nil {
		if err := a.navigate(target); err != nil {
			return err
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.assigned = target
	return nil
}

func (a *Address) Reload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reloaded = true
}

// Assigned returns the last navigation target, if any.
func (a *Address) Assigned() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.assigned
}

// Reloaded reports whether a reload was requested.
func (a *Address) Reloaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reloaded
}
