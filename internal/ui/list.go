package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tdx/internal/models"
)

var _ list.Item = todoItem{}

// todoItem wraps [models.TodoItem] to implement [list.Item].
type todoItem struct {
	item models.TodoItem
}

func (i todoItem) FilterValue() string { return i.item.Content }
func (i todoItem) Title() string {
	if i.item.Done {
		return "[x] " + i.item.Content
	}
	return "[ ] " + i.item.Content
}
func (i todoItem) Description() string { return fmt.Sprintf("#%d", i.item.ID) }

func toListItems(items []models.TodoItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = todoItem{item: it}
	}
	return out
}
