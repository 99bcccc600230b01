// package tasks keeps rendered client state in step with the backend.
package tasks

import (
	"context"

	"github.com/desertthunder/tdx/internal/models"
)

// TodoAPI is the subset of the REST client the sync client needs. [services.TodoService] implements it.
type TodoAPI interface {
	List(ctx context.Context) ([]models.TodoItem, error)
	Create(ctx context.Context, content string) error
	SetDone(ctx context.Context, id int64, done bool) error
	Remove(ctx context.Context, id int64) error
}

// TodoRenderer receives every successfully fetched list.
type TodoRenderer interface {
	RenderTodos(items []models.TodoItem)
}

// CountAPI fetches the public user count. [services.PresenceService] implements it.
type CountAPI interface {
	UserCount(ctx context.Context) (int, error)
}

// CountRenderer displays the public user count.
type CountRenderer interface {
	RenderUserCount(n int)
}
