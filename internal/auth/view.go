package auth

import (
	"context"

	"github.com/desertthunder/tdx/internal/models"
)

// View renders page state and receives the handlers bound for the current load.
type View interface {
	ShowLogin()
	ShowTodos()
	RenderUser(u models.User)
	RenderTodos(items []models.TodoItem)
	RenderUserCount(n int)
	// Report surfaces an operation failure to the user.
	Report(err error)
	// Bind replaces every previously bound handler.
	Bind(b Bindings)
}

// Bindings are the user actions available in the current state. Unavailable actions are nil.
//
// Each handler has already logged and reported its failure when it returns an error.
type Bindings struct {
	Login  func(ctx context.Context) error
	Logout func(ctx context.Context) error
	Add    func(ctx context.Context, content string) error
	Update func(ctx context.Context, id int64, done bool) error
	Delete func(ctx context.Context, id int64) error
}
