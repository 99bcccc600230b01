package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// load runs one page load at u and returns what it rendered.
func (r *Runner) load(ctx context.Context, u *url.URL, navigate func(string) error) (*auth.Page, *auth.Address, *pageView) {
	view := &pageView{}
	address := auth.NewAddress(u, navigate)
	page := r.newPage(address, view)
	page.Load(ctx)
	return page, address, view
}

// authenticated loads the client page and fails unless a session is present.
func (r *Runner) authenticated(ctx context.Context) (*pageView, error) {
	u, err := r.pageURL()
	if err != nil {
		return nil, err
	}

	page, _, view := r.load(ctx, u, nil)
	if page.State() != auth.Authenticated {
		return nil, fmt.Errorf("%w: run 'tdx login' first", shared.ErrNotAuthenticated)
	}
	return view, nil
}

// Status loads the client page and prints the state it evaluated to.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	u, err := r.pageURL()
	if err != nil {
		return err
	}

	page, _, view := r.load(ctx, u, nil)
	items, user, count := view.snapshot()

	r.writePlainHeader("tdx status")
	r.writePlain("Config: %s\n", r.configPath)
	r.writePlain("Backend: %s\n", r.api.BaseURL())
	r.writePlain("State: %s\n", page.State())
	if user != nil {
		r.writePlain("User: %s <%s>\n", user.Username, user.Email)
		if avatar, ok := user.Avatar(); ok {
			r.writePlain("Avatar: %s\n", avatar)
		}
	}
	if page.State() == auth.Authenticated {
		r.writePlain("Items: %d\n", len(items))
	}
	if count != nil {
		r.writePlain("Users: %d\n", *count)
	}
	if view.showingLogin() {
		r.writePlainln("Not signed in. Run 'tdx login' to sign in with GitHub.")
	}
	if err := view.err(); err != nil {
		r.writePlainln("⚠ %v", err)
	}
	return nil
}

// Login signs in through the provider.
//
// The page first loads anonymously and its login handler navigates to the provider. Once the
// redirect comes back, a second load at the page address with code and state performs the
// exchange and writes the session marker.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	u, err := r.pageURL()
	if err != nil {
		return err
	}

	receiver, err := r.newReceiver(r.output)
	if err != nil {
		return err
	}

	page, _, view := r.load(ctx, u, receiver.navigate)
	if page.State() == auth.Authenticated {
		_, user, _ := view.snapshot()
		if user != nil {
			return r.writePlain("✓ Already signed in as %s\n", user.Username)
		}
		return r.writePlain("✓ Already signed in\n")
	}

	login := view.bound().Login
	if login == nil {
		return fmt.Errorf("%w: login is not available", shared.ErrAuthFailed)
	}

	r.writePlain("→ Opening browser for GitHub sign-in...\n")
	if err := login(ctx); err != nil {
		return err
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", r.config.CallbackWait())
	redirect, err := receiver.await(ctx)
	if err != nil {
		return err
	}

	_, _, view = r.load(ctx, models.WithRedirect(u, redirect), nil)
	if _, ok := r.jar.Marker(u); !ok {
		return errors.Join(shared.ErrAuthFailed, view.err())
	}

	items, user, _ := view.snapshot()
	if user != nil {
		r.writePlain("✓ Signed in as %s\n", user.Username)
	} else {
		r.writePlain("✓ Signed in\n")
	}
	r.writePlain("Items: %d\n", len(items))

	if err := view.err(); err != nil {
		r.logger.Warn("signed in with errors", "error", err)
	}
	return nil
}

// Logout ends the session. Local cookies are cleared even when the backend is unreachable.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	u, err := r.pageURL()
	if err != nil {
		return err
	}

	page, address, view := r.load(ctx, u, nil)
	if page.State() != auth.Authenticated {
		return r.writePlain("Not signed in\n")
	}

	if err := view.bound().Logout(ctx); err != nil {
		return err
	}
	if !address.Reloaded() {
		r.logger.Warn("logout did not request a reload")
	}
	return r.writePlain("✓ Signed out\n")
}

// Count prints the total number of registered users.
func (r *Runner) Count(ctx context.Context, cmd *cli.Command) error {
	n, err := r.presence.UserCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user count: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]int{"user_count": n}, false)
	}
	return r.writePlain("%d\n", n)
}
