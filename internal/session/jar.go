package session

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/shared"
	"golang.org/x/net/publicsuffix"
)

var _ http.CookieJar = (*Jar)(nil)

// Jar is an [http.CookieJar] over a [CookieStore].
//
// It plays the role of the browser cookie store: server Set-Cookie headers land here through
// [Jar.SetCookies], client-side writes go through [Jar.Set], and [Jar.String] renders the
// script-visible view that the session detector reads. Partitioned cookies are kept in a single
// partition because the client only ever has one top-level site.
type Jar struct {
	store  CookieStore
	logger *log.Logger
	now    func() time.Time
}

// NewJar creates a [Jar]. A nil logger discards jar warnings to stderr via the default logger.
func NewJar(store CookieStore, logger *log.Logger) *Jar {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Jar{store: store, logger: logger, now: time.Now}
}

// SetLogger replaces the logger used for rejected cookies and failed lookups.
func (j *Jar) SetLogger(l *log.Logger) {
	if l != nil {
		j.logger = l
	}
}

// SetCookies implements [http.CookieJar]. Rejected or failing cookies are logged and skipped.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()
	for _, c := range cookies {
		if err := j.set(ctx, u, c, true); err != nil {
			j.logger.Warn("cookie rejected", "name", c.Name, "host", u.Hostname(), "error", err)
		}
	}
}

// Cookies implements [http.CookieJar].
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	entries, err := j.matching(context.Background(), u, true)
	if err != nil {
		j.logger.Warn("cookie lookup failed", "host", u.Hostname(), "error", err)
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(entries))
	for _, e := range entries {
		cookies = append(cookies, &http.Cookie{Name: e.Name, Value: e.Value})
	}
	return cookies
}

// Set writes a cookie the way page script would: HttpOnly cannot be set from this side.
func (j *Jar) Set(ctx context.Context, u *url.URL, c *http.Cookie) error {
	clientSide := *c
	clientSide.HttpOnly = false
	return j.set(ctx, u, &clientSide, false)
}

// Expire deletes the cookie stored under name, domain and path.
//
// An empty domain addresses the host-only cookie of u.
func (j *Jar) Expire(ctx context.Context, u *url.URL, name, domain, path string) error {
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	if domain == "" {
		domain = canonicalHost(u)
	}
	if domain == "" {
		return fmt.Errorf("%w: no domain to expire %s", shared.ErrInvalidArgument, name)
	}
	if path == "" {
		path = "/"
	}
	if err := j.store.Remove(ctx, name, domain, path); err != nil {
		return fmt.Errorf("failed to expire cookie %s: %w", name, err)
	}
	return nil
}

// String renders the script-visible cookies for u as "name=value; name2=value2".
//
// HttpOnly cookies such as the server session token are never included.
func (j *Jar) String(u *url.URL) string {
	entries, err := j.matching(context.Background(), u, false)
	if err != nil {
		j.logger.Warn("cookie lookup failed", "host", u.Hostname(), "error", err)
		return ""
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Name+"="+e.Value)
	}
	return strings.Join(parts, "; ")
}

// Marker is the single read of the session marker for the page at u.
func (j *Jar) Marker(u *url.URL) (Marker, bool) {
	return Detect(j.String(u))
}

// Entries lists every unexpired cookie in the store.
func (j *Jar) Entries(ctx context.Context) ([]Entry, error) {
	all, err := j.store.All(ctx)
	if err != nil {
		return nil, err
	}

	now := j.now()
	live := all[:0]
	for _, e := range all {
		if !e.Expired(now) {
			live = append(live, e)
		}
	}
	return live, nil
}

// Clear drops every stored cookie.
func (j *Jar) Clear(ctx context.Context) error {
	return j.store.Clear(ctx)
}

func (j *Jar) set(ctx context.Context, u *url.URL, c *http.Cookie, fromServer bool) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("%w: cookie without a name", shared.ErrInvalidArgument)
	}

	host := canonicalHost(u)
	if host == "" {
		return fmt.Errorf("%w: url has no host", shared.ErrInvalidArgument)
	}

	e := Entry{
		Name:        c.Name,
		Value:       c.Value,
		Domain:      host,
		HostOnly:    true,
		Path:        c.Path,
		Secure:      c.Secure,
		HTTPOnly:    fromServer && c.HttpOnly,
		Partitioned: c.Partitioned,
		Created:     j.now(),
	}

	if c.Domain != "" {
		d := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		if !domainMatch(host, d) {
			return fmt.Errorf("%w: domain %s does not match host %s", shared.ErrInvalidArgument, d, host)
		}
		if ps, _ := publicsuffix.PublicSuffix(d); d != host && ps == d {
			return fmt.Errorf("%w: domain %s is a public suffix", shared.ErrInvalidArgument, d)
		}
		e.Domain, e.HostOnly = d, false
	}

	if e.Path == "" || e.Path[0] != '/' {
		e.Path = defaultPath(u.Path)
	}

	if e.Secure && !isSecure(u) {
		return fmt.Errorf("%w: secure cookie from insecure origin %s", shared.ErrInvalidArgument, host)
	}

	now := j.now()
	switch {
	case c.MaxAge < 0:
		return j.store.Remove(ctx, e.Name, e.Domain, e.Path)
	case c.MaxAge > 0:
		e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return j.store.Remove(ctx, e.Name, e.Domain, e.Path)
		}
		e.Expires = c.Expires
	}

	return j.store.Put(ctx, e)
}

// matching returns the unexpired entries applicable to u, pruning expired ones from the store.
func (j *Jar) matching(ctx context.Context, u *url.URL, includeHTTPOnly bool) ([]Entry, error) {
	all, err := j.store.All(ctx)
	if err != nil {
		return nil, err
	}

	host := canonicalHost(u)
	secure := isSecure(u)
	now := j.now()

	var out []Entry
	for _, e := range all {
		if e.Expired(now) {
			if err := j.store.Remove(ctx, e.Name, e.Domain, e.Path); err != nil {
				j.logger.Debug("failed to prune expired cookie", "name", e.Name, "error", err)
			}
			continue
		}
		if e.HostOnly && host != e.Domain {
			continue
		}
		if !e.HostOnly && !domainMatch(host, e.Domain) {
			continue
		}
		if !pathMatch(u.Path, e.Path) {
			continue
		}
		if e.Secure && !secure {
			continue
		}
		if e.HTTPOnly && !includeHTTPOnly {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func canonicalHost(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func domainMatch(host, domain string) bool {
	if host == domain {
		return true
	}
	if net.ParseIP(host) != nil {
		return false
	}
	return strings.HasSuffix(host, "."+domain)
}

func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// isSecure treats HTTPS and loopback hosts as secure contexts.
func isSecure(u *url.URL) bool {
	if u == nil {
		return false
	}
	if u.Scheme == "https" {
		return true
	}
	host := canonicalHost(u)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
