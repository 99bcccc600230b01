package main

import (
	"errors"
	"sync"

	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
)

var _ auth.View = (*pageView)(nil)

// pageView keeps the latest render of a page so a command can print it once the action finishes.
type pageView struct {
	mu       sync.Mutex
	login    bool
	user     *models.User
	items    []models.TodoItem
	count    *int
	reports  []error
	bindings auth.Bindings
}

func (v *pageView) ShowLogin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.login = true
}

func (v *pageView) ShowTodos() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.login = false
}

func (v *pageView) RenderUser(u models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.user = &u
}

func (v *pageView) RenderTodos(items []models.TodoItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append([]models.TodoItem{}, items...)
}

func (v *pageView) RenderUserCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.count = &n
}

func (v *pageView) Report(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reports = append(v.reports, err)
}

func (v *pageView) Bind(b auth.Bindings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bindings = b
}

func (v *pageView) snapshot() ([]models.TodoItem, *models.User, *int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.TodoItem{}, v.items...), v.user, v.count
}

func (v *pageView) showingLogin() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.login
}

func (v *pageView) bound() auth.Bindings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bindings
}

// err joins every reported failure.
func (v *pageView) err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return errors.Join(v.reports...)
}
