package ui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	tu "github.com/desertthunder/tdx/internal/testing"
)

const pageURL = "http://localhost:3000/callback"

func newTestModel(t *testing.T, factory PageFactory) *Model {
	t.Helper()
	u, err := url.Parse(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(context.Background(), Config{
		PageURL: u,
		NewPage: factory,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
	})
}

func backendFactory(t *testing.T) (PageFactory, *tu.Backend) {
	t.Helper()

	logger := shared.NewLogger(&bytes.Buffer{})
	b := tu.NewBackend(t)
	jar := session.NewJar(session.NewMemoryStore(), logger)
	api := services.NewAPIService(b.URL(), &http.Client{Jar: jar}, 0, logger)

	return func(loc auth.Location, view auth.View) *auth.Page {
		return auth.NewPage(auth.Options{
			Location:     loc,
			View:         view,
			Jar:          jar,
			Account:      services.NewAccountService(api),
			Todos:        services.NewTodoService(api),
			Presence:     services.NewPresenceService(api),
			AuthorizeURL: "https://github.com/login/oauth/authorize",
			Cookie:       shared.CookieConfig{Domain: "localhost", Path: "/", MaxAge: 21540},
			Logger:       logger,
		})
	}, b
}

// drain feeds every queued bridge event through Update.
func drain(m *Model) {
	for {
		select {
		case msg := <-m.bridge.events:
			m.Update(eventMsg{from: m.bridge, msg: msg})
		default:
			return
		}
	}
}

func TestBridge(t *testing.T) {
	b := newBridge()

	b.ShowTodos()
	b.RenderUserCount(3)
	b.Report(errors.New("boom"))

	event := func() tea.Msg {
		t.Helper()
		e, ok := b.next()().(eventMsg)
		if !ok || e.from != b {
			t.Fatalf("expected an event from the bridge, got %#v", e)
		}
		return e.msg
	}

	if msg, ok := event().(screenMsg); !ok || msg.screen != todoScreen {
		t.Errorf("expected todo screen message, got %#v", msg)
	}
	if msg, ok := event().(countMsg); !ok || msg.count != 3 {
		t.Errorf("expected count message, got %#v", msg)
	}
	if msg, ok := event().(reportMsg); !ok || msg.err == nil {
		t.Errorf("expected report message, got %#v", msg)
	}

	items := []models.TodoItem{{ID: 1, Content: "a"}}
	b.RenderTodos(items)
	items[0].Content = "changed"
	if msg := event().(todosMsg); msg.items[0].Content != "a" {
		t.Error("rendered items must be copied")
	}

	t.Run("stopped bridge neither blocks nor yields", func(t *testing.T) {
		b := newBridge()
		b.stop()
		b.stop()

		if msg := b.next()(); msg != nil {
			t.Errorf("expected no message, got %#v", msg)
		}
		for i := 0; i < 100; i++ {
			b.Report(errors.New("late"))
		}
	})
}

func TestModel(t *testing.T) {
	t.Run("anonymous load shows login", func(t *testing.T) {
		factory, b := backendFactory(t)
		m := newTestModel(t, factory)

		msg := m.load()()
		m.Update(msg)
		drain(m)

		if m.page == nil || m.page.State() != auth.Anonymous {
			t.Fatalf("expected anonymous page, got %+v", m.page)
		}
		if m.screen != loginScreen {
			t.Errorf("expected login screen, got %v", m.screen)
		}
		if m.bindings.Login == nil {
			t.Error("expected login to be bound")
		}
		if m.count == nil || *m.count != 1 {
			t.Errorf("expected user count, got %v", m.count)
		}
		if !strings.Contains(m.View(), "not signed in") {
			t.Errorf("unexpected view %q", m.View())
		}
		if n := b.Count("GET /"); n != 1 {
			t.Errorf("expected one presence refresh, got %d", n)
		}
	})

	t.Run("redirect reloads at the page with code and state", func(t *testing.T) {
		factory, b := backendFactory(t)
		m := newTestModel(t, factory)

		_, cmd := m.Update(redirectMsg{redirect: models.Redirect{Code: b.Code(), State: "xyz"}})
		if cmd == nil {
			t.Fatal("expected a load command")
		}
		if m.screen != loadingScreen {
			t.Errorf("expected loading screen while reloading, got %v", m.screen)
		}

		m.Update(cmd())
		drain(m)

		if n := b.Count("POST /user/auth/github/success"); n != 1 {
			t.Errorf("expected one exchange, got %d", n)
		}
		if m.screen != todoScreen {
			t.Errorf("expected todo screen, got %v", m.screen)
		}
		if m.user == nil || m.user.Username != "octocat" {
			t.Errorf("expected user to render, got %+v", m.user)
		}
		if r := models.RedirectFrom(m.address.URL()); r.Present() {
			t.Errorf("expected redirect to be stripped, got %s", m.address.URL())
		}
		if !strings.Contains(m.View(), "octocat") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("redirect error is shown", func(t *testing.T) {
		m := newTestModel(t, nil)

		_, cmd := m.Update(redirectMsg{err: shared.ErrTimeout})
		if cmd != nil {
			t.Error("expected no reload on error")
		}
		if !errors.Is(m.err, shared.ErrTimeout) {
			t.Errorf("expected timeout to be shown, got %v", m.err)
		}
	})

	t.Run("action after reload request builds a new page", func(t *testing.T) {
		m := newTestModel(t, nil)
		m.screen = todoScreen
		m.bindings = auth.Bindings{Logout: func(context.Context) error { return nil }}
		m.address.Reload()

		_, cmd := m.Update(actionMsg{op: "logout", from: m.bridge})
		if cmd == nil {
			t.Fatal("expected a load command")
		}
		if m.screen != loadingScreen || m.bindings.Logout != nil {
			t.Error("expected page state to be dropped")
		}
		if m.address.Reloaded() {
			t.Error("expected a fresh address")
		}
	})

	t.Run("events from a replaced page are dropped", func(t *testing.T) {
		m := newTestModel(t, nil)
		old := m.bridge
		m.screen = todoScreen
		m.reload(m.address.URL())

		if m.bridge == old {
			t.Fatal("expected a new bridge for the new page")
		}

		late := auth.Bindings{Logout: func(context.Context) error { return nil }}
		for _, msg := range []tea.Msg{
			todosMsg{items: []models.TodoItem{{ID: 1, Content: "stale"}}},
			userMsg{user: models.User{Username: "ghost"}},
			bindMsg{bindings: late},
			screenMsg{screen: todoScreen},
		} {
			if _, cmd := m.Update(eventMsg{from: old, msg: msg}); cmd != nil {
				t.Errorf("expected stale %T to be ignored", msg)
			}
		}
		if _, cmd := m.Update(actionMsg{op: "update", from: old}); cmd != nil {
			t.Error("expected stale action result to be ignored")
		}
		m.Update(loadedMsg{from: old})

		if len(m.todoList.Items()) != 0 || m.user != nil || m.bindings.Logout != nil || m.page != nil {
			t.Error("expected no state from the replaced page")
		}
		if m.screen != loadingScreen {
			t.Errorf("expected loading screen, got %v", m.screen)
		}
		if msg := old.next()(); msg != nil {
			t.Errorf("expected the old bridge to be stopped, got %#v", msg)
		}
	})

	t.Run("keys run bound handlers", func(t *testing.T) {
		m := newTestModel(t, nil)
		m.screen = loginScreen

		var called bool
		m.bindings = auth.Bindings{Login: func(context.Context) error {
			called = true
			return nil
		}}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected login command")
		}
		msg, ok := cmd().(actionMsg)
		if !ok || msg.op != "login" || !called {
			t.Errorf("expected login to run, got %#v", msg)
		}
	})

	t.Run("add mode submits content", func(t *testing.T) {
		m := newTestModel(t, nil)
		m.screen = todoScreen

		var got string
		m.bindings = auth.Bindings{Add: func(_ context.Context, content string) error {
			got = content
			return nil
		}}

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
		if !m.adding {
			t.Fatal("expected add mode")
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("milk")})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected add command")
		}
		cmd()

		if got != "milk" {
			t.Errorf("expected content to be submitted, got %q", got)
		}
		if m.adding {
			t.Error("expected add mode to end")
		}
	})

	t.Run("unbound keys do nothing", func(t *testing.T) {
		m := newTestModel(t, nil)
		m.screen = todoScreen

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
		if cmd != nil {
			t.Error("expected no command without a logout binding")
		}
	})
}

func TestTodoItem(t *testing.T) {
	it := todoItem{item: models.TodoItem{ID: 4, Content: "walk", Done: true}}

	if it.Title() != "[x] walk" {
		t.Errorf("unexpected title %q", it.Title())
	}
	if it.Description() != "#4" {
		t.Errorf("unexpected description %q", it.Description())
	}
	if it.FilterValue() != "walk" {
		t.Errorf("unexpected filter value %q", it.FilterValue())
	}
	if got := toListItems([]models.TodoItem{{ID: 1}, {ID: 2}}); len(got) != 2 {
		t.Errorf("expected two list items, got %d", len(got))
	}
}
