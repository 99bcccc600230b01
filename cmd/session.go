package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// storedCookie is the printable form of a jar entry. HttpOnly values are withheld.
type storedCookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value,omitempty"`
	Domain   string     `json:"domain"`
	Path     string     `json:"path"`
	HostOnly bool       `json:"host_only"`
	Secure   bool       `json:"secure"`
	HTTPOnly bool       `json:"http_only"`
	Expires  *time.Time `json:"expires,omitempty"`
}

func toStoredCookie(e session.Entry) storedCookie {
	c := storedCookie{
		Name:     e.Name,
		Value:    e.Value,
		Domain:   e.Domain,
		Path:     e.Path,
		HostOnly: e.HostOnly,
		Secure:   e.Secure,
		HTTPOnly: e.HTTPOnly,
	}
	if e.HTTPOnly {
		c.Value = ""
	}
	if !e.Expires.IsZero() {
		exp := e.Expires
		c.Expires = &exp
	}
	return c
}

// SessionShow lists the stored cookies.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.jar.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]storedCookie, 0, len(entries))
	for _, e := range entries {
		cookies = append(cookies, toStoredCookie(e))
	}

	if cmd.Bool("json") {
		return r.writeJSON(cookies, cmd.Bool("pretty"))
	}

	if len(cookies) == 0 {
		return r.writePlain("No stored cookies.\n")
	}

	for _, c := range cookies {
		value := c.Value
		if c.HTTPOnly {
			value = "(http-only)"
		}
		expires := "session"
		if c.Expires != nil {
			expires = c.Expires.Local().Format(time.RFC3339)
		}
		r.writePlain("%s=%s\n  domain=%s path=%s secure=%t expires=%s\n", c.Name, value, c.Domain, c.Path, c.Secure, expires)
	}
	return nil
}

// SessionImport adopts a browser session from a "Copy as cURL" command.
//
// The session marker is written with the configured cookie attributes; every other cookie is
// stored for the request host, with the session token kept HttpOnly.
func (r *Runner) SessionImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var req *shared.CurlRequest
	var err error

	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("%w: request url: %w", shared.ErrInvalidArgument, err)
	}

	page, err := r.pageURL()
	if err != nil {
		return err
	}

	pairs := session.Pairs(req.Cookie)
	if len(pairs) == 0 {
		return fmt.Errorf("%w: no cookies found in curl command", shared.ErrInvalidArgument)
	}

	for _, p := range pairs {
		if p.Name == session.MarkerName {
			cookie := r.config.Cookie
			cookie.Path = r.config.CookiePath()
			marker := auth.MarkerCookie(cookie)
			marker.Value = p.Value
			if err := r.jar.Set(ctx, page, marker); err != nil {
				return fmt.Errorf("failed to import %s: %w", p.Name, err)
			}
			continue
		}
		r.jar.SetCookies(target, []*http.Cookie{{
			Name:     p.Name,
			Value:    p.Value,
			Path:     "/",
			HttpOnly: p.Name == session.TokenName,
		}})
	}

	r.logger.Info("imported cookies", "count", len(pairs), "host", target.Hostname())
	if _, ok := r.jar.Marker(page); !ok {
		r.logger.Warn("no session marker imported, the next page load will be anonymous")
	}
	return r.writePlain("✓ Imported %d cookies from %s\n", len(pairs), target.Host)
}

// SessionClear drops every stored cookie without contacting the backend.
func (r *Runner) SessionClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.jar.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return r.writePlain("✓ Local session cleared\n")
}
