package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// TodoSync performs item mutations and re-fetches the authoritative list after each success.
//
// The rendered list is only ever replaced by a server response. A failed mutation issues no
// follow-up fetch and leaves the previous render untouched.
type TodoSync struct {
	api      TodoAPI
	renderer TodoRenderer
	logger   *log.Logger

	mu    sync.Mutex
	items []models.TodoItem
}

// NewTodoSync creates a [TodoSync].
func NewTodoSync(api TodoAPI, renderer TodoRenderer, logger *log.Logger) *TodoSync {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TodoSync{api: api, renderer: renderer, logger: shared.WithLogger(logger, "component", "todo")}
}

// List fetches the items and replaces the rendered list wholesale.
func (s *TodoSync) List(ctx context.Context) ([]models.TodoItem, error) {
	items, err := s.api.List(ctx)
	if err != nil {
		s.logger.Error("list failed", "kind", shared.Classify(err), "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.items = append([]models.TodoItem(nil), items...)
	s.mu.Unlock()

	s.renderer.RenderTodos(items)
	s.logger.Debug("rendered items", "count", len(items))
	return items, nil
}

// Add creates an item from content after trimming whitespace.
//
// Blank content fails with [shared.ErrValidation] before any request is sent.
func (s *TodoSync) Add(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		err := fmt.Errorf("%w: item content is empty", shared.ErrValidation)
		s.logger.Warn("add rejected", "kind", shared.Classify(err), "error", err)
		return err
	}

	return s.mutate(ctx, "add", func() error { return s.api.Create(ctx, content) })
}

// Update sets the done flag of item id.
func (s *TodoSync) Update(ctx context.Context, id int64, done bool) error {
	return s.mutate(ctx, "update", func() error { return s.api.SetDone(ctx, id, done) }, "id", id, "done", done)
}

// Delete removes item id.
func (s *TodoSync) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", func() error { return s.api.Remove(ctx, id) }, "id", id)
}

// Items returns a copy of the last rendered list.
func (s *TodoSync) Items() []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TodoItem(nil), s.items...)
}

func (s *TodoSync) mutate(ctx context.Context, op string, call func() error, kv ...any) error {
	logger := s.logger.With(append([]any{"op", op}, kv...)...)

	if err := call(); err != nil {
		logger.Error("mutation failed", "kind", shared.Classify(err), "error", err)
		return err
	}

	logger.Debug("mutation accepted, refreshing")
	_, err := s.List(ctx)
	return err
}
