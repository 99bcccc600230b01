package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/server"
	"github.com/desertthunder/tdx/internal/shared"
)

// callbackReceiver stands in for the browser tab the provider redirects back to.
//
// navigate binds the local listener before opening the provider page, so the redirect cannot
// arrive before anything is listening. await then hands back the code and state.
type callbackReceiver struct {
	addr   string
	path   string
	wait   time.Duration
	open   func(string) error
	out    io.Writer
	logger *log.Logger

	mu       sync.Mutex
	handler  *server.CallbackHandler
	listener *server.Listener
}

func (r *Runner) newReceiver(out io.Writer) (*callbackReceiver, error) {
	page, err := r.pageURL()
	if err != nil {
		return nil, err
	}
	return &callbackReceiver{
		addr:   r.config.Client.CallbackAddr,
		path:   page.Path,
		wait:   r.config.CallbackWait(),
		open:   r.openBrowser,
		out:    out,
		logger: shared.WithLogger(r.logger, "component", "callback"),
	}, nil
}

// navigate starts the listener if needed and opens target in the browser.
func (c *callbackReceiver) navigate(target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listener == nil {
		handler := server.NewCallbackHandler(c.path)
		router := server.NewBasicRouter()
		router.Use(server.Logging(c.logger))
		router.Handler(handler)

		ln, err := server.Listen(c.addr, router, c.logger)
		if err != nil {
			return err
		}
		c.handler, c.listener = handler, ln
		c.logger.Info("waiting for provider redirect", "addr", ln.Addr(), "path", c.path)
	}

	if err := c.open(target); err != nil {
		c.logger.Warn("failed to open browser automatically", "error", err)
		fmt.Fprintf(c.out, "⚠ Could not open browser automatically.\nPlease open this URL in your browser:\n%s\n\n", target)
	}
	return nil
}

// await blocks until the redirect arrives, the configured wait passes or ctx ends.
// The listener is shut down in every case.
func (c *callbackReceiver) await(ctx context.Context) (models.Redirect, error) {
	c.mu.Lock()
	handler, ln := c.handler, c.listener
	c.handler, c.listener = nil, nil
	c.mu.Unlock()

	if handler == nil {
		return models.Redirect{}, fmt.Errorf("%w: no login in progress", shared.ErrAuthFailed)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ln.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	timeout := time.NewTimer(c.wait)
	defer timeout.Stop()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return models.Redirect{}, fmt.Errorf("authorization failed: %w", err)
		}
		return result.Redirect, nil
	case <-timeout.C:
		return models.Redirect{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, c.wait)
	case <-ctx.Done():
		return models.Redirect{}, ctx.Err()
	}
}
