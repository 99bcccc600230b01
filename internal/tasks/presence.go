package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/shared"
)

// PresenceCounter renders the public user count.
type PresenceCounter struct {
	api      CountAPI
	renderer CountRenderer
	logger   *log.Logger
}

// NewPresenceCounter creates a [PresenceCounter].
func NewPresenceCounter(api CountAPI, renderer CountRenderer, logger *log.Logger) *PresenceCounter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PresenceCounter{api: api, renderer: renderer, logger: shared.WithLogger(logger, "component", "presence")}
}

// RefreshCount fetches and renders the count. Failures are logged and otherwise ignored.
func (p *PresenceCounter) RefreshCount(ctx context.Context) {
	n, err := p.api.UserCount(ctx)
	if err != nil {
		p.logger.Warn("user count unavailable", "kind", shared.Classify(err), "error", err)
		return
	}
	p.renderer.RenderUserCount(n)
}
