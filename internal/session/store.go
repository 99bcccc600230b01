package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Entry is one stored cookie.
type Entry struct {
	Name        string
	Value       string
	Domain      string // without a leading dot
	Path        string
	HostOnly    bool
	Secure      bool
	HTTPOnly    bool
	Partitioned bool
	Expires     time.Time // zero for a session cookie
	Created     time.Time
}

// Expired reports whether e is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.Expires.IsZero() && !e.Expires.After(now)
}

// CookieStore persists jar entries, keyed by name, domain and path.
type CookieStore interface {
	Put(ctx context.Context, e Entry) error
	Remove(ctx context.Context, name, domain, path string) error
	All(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

type entryKey struct {
	name, domain, path string
}

// MemoryStore is an in-process [CookieStore].
type MemoryStore struct {
	mu      sync.Mutex
	entries map[entryKey]Entry
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[entryKey]Entry)}
}

func (s *MemoryStore) Put(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := entryKey{e.Name, e.Domain, e.Path}
	if prev, ok := s.entries[k]; ok {
		e.Created = prev.Created
	}
	s.entries[k] = e
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, name, domain, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, entryKey{name, domain, path})
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[entryKey]Entry)
	return nil
}

// sortEntries orders entries longest path first, then oldest first.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].Path) != len(entries[j].Path) {
			return len(entries[i].Path) > len(entries[j].Path)
		}
		if !entries[i].Created.Equal(entries[j].Created) {
			return entries[i].Created.Before(entries[j].Created)
		}
		return entries[i].Name < entries[j].Name
	})
}
