package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tdx/internal/models"
)

// TodoService covers the /todo endpoints.
type TodoService struct {
	api Requester
}

// NewTodoService creates a [TodoService] over api.
func NewTodoService(api Requester) *TodoService {
	return &TodoService{api: api}
}

type newTodoRequest struct {
	Content string `json:"content"`
}

type updateTodoRequest struct {
	Done bool `json:"done"`
}

// List fetches the user's items in server order.
func (s *TodoService) List(ctx context.Context) ([]models.TodoItem, error) {
	resp, err := s.api.Request(ctx, http.MethodGet, "/todo/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	var items []models.TodoItem
	if err := resp.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	return items, nil
}

// Create stores a new item with the given content.
func (s *TodoService) Create(ctx context.Context, content string) error {
	if _, err := s.api.Request(ctx, http.MethodPost, "/todo/set", newTodoRequest{Content: content}); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

// SetDone updates the done flag of item id.
func (s *TodoService) SetDone(ctx context.Context, id int64, done bool) error {
	path := fmt.Sprintf("/todo/update/%d", id)
	if _, err := s.api.Request(ctx, http.MethodPatch, path, updateTodoRequest{Done: done}); err != nil {
		return fmt.Errorf("failed to update item %d: %w", id, err)
	}
	return nil
}

// Remove deletes item id.
func (s *TodoService) Remove(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/todo/delete/%d", id)
	if _, err := s.api.Request(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}
