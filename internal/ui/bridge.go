package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
)

var _ auth.View = (*bridge)(nil)

// bridge implements [auth.View] for one page load by turning each call into a message for the
// program loop.
//
// Controller callbacks run inside commands, off the loop, so they never touch the model directly.
// Once stopped, sends no longer block and [bridge.next] yields nothing.
type bridge struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

// eventMsg is a controller event tagged with the bridge of the page that raised it.
type eventMsg struct {
	from *bridge
	msg  tea.Msg
}

func newBridge() *bridge {
	return &bridge{events: make(chan tea.Msg, 64), done: make(chan struct{})}
}

func (b *bridge) RenderTodos(items []models.TodoItem) {
	b.send(todosMsg{items: append([]models.TodoItem{}, items...)})
}

func (b *bridge) ShowLogin()                  { b.send(screenMsg{screen: loginScreen}) }
func (b *bridge) ShowTodos()                  { b.send(screenMsg{screen: todoScreen}) }
func (b *bridge) RenderUser(u models.User)    { b.send(userMsg{user: u}) }
func (b *bridge) RenderUserCount(n int)       { b.send(countMsg{count: n}) }
func (b *bridge) Report(err error)            { b.send(reportMsg{err: err}) }
func (b *bridge) Bind(bindings auth.Bindings) { b.send(bindMsg{bindings: bindings}) }

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

// stop detaches the bridge from the program. Safe to call more than once.
func (b *bridge) stop() {
	b.once.Do(func() { close(b.done) })
}

// next waits for the following controller event.
func (b *bridge) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return eventMsg{from: b, msg: msg}
		case <-b.done:
			return nil
		}
	}
}
