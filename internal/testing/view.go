package testing

import (
	"sync"

	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
)

// RecordingView is an [auth.View] that remembers everything it was asked to show.
type RecordingView struct {
	mu       sync.Mutex
	Events   []string
	Screen   string // "login" or "todos"
	User     *models.User
	Renders  [][]models.TodoItem
	Counts   []int
	Reports  []error
	Binds    int
	bindings auth.Bindings
}

var _ auth.View = (*RecordingView)(nil)

func (v *RecordingView) ShowLogin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Screen = "login"
	v.Events = append(v.Events, "show_login")
}

func (v *RecordingView) ShowTodos() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Screen = "todos"
	v.Events = append(v.Events, "show_todos")
}

func (v *RecordingView) RenderUser(u models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.User = &u
	v.Events = append(v.Events, "render_user")
}

func (v *RecordingView) RenderTodos(items []models.TodoItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Renders = append(v.Renders, append([]models.TodoItem{}, items...))
	v.Events = append(v.Events, "render_todos")
}

func (v *RecordingView) RenderUserCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Counts = append(v.Counts, n)
	v.Events = append(v.Events, "render_count")
}

func (v *RecordingView) Report(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Reports = append(v.Reports, err)
	v.Events = append(v.Events, "report")
}

func (v *RecordingView) Bind(b auth.Bindings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Binds++
	v.bindings = b
	v.Events = append(v.Events, "bind")
}

// Bindings returns the handlers from the last Bind.
func (v *RecordingView) Bindings() auth.Bindings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bindings
}

// LastRender returns the most recent rendered list, or nil.
func (v *RecordingView) LastRender() []models.TodoItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.Renders) == 0 {
		return nil
	}
	return v.Renders[len(v.Renders)-1]
}
