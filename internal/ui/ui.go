package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// PageFactory builds one page load over the given location and view.
type PageFactory func(loc auth.Location, view auth.View) *auth.Page

// Config wires a [Model].
type Config struct {
	PageURL *url.URL
	NewPage PageFactory
	// Navigate opens the provider login page; nil only records the target.
	Navigate func(target string) error
	// AwaitRedirect blocks until the provider redirects back. Nil disables the wait after login.
	AwaitRedirect func(ctx context.Context) (models.Redirect, error)
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	cfg      Config
	bridge   *bridge
	address  *auth.Address
	page     *auth.Page
	bindings auth.Bindings

	screen   screen
	user     *models.User
	count    *int
	todoList list.Model
	input    textinput.Model
	adding   bool
	busy     string
	status   string
	err      error

	width  int
	height int
	help   help.Model
	keys   keyMap
	logger *log.Logger
}

// NewModel creates a new TUI model. The first page loads in [Model.Init].
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 280

	todoList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	todoList.Title = "Todo"
	todoList.SetShowHelp(false)

	return &Model{
		ctx:      ctx,
		cfg:      cfg,
		bridge:   newBridge(),
		address:  auth.NewAddress(cfg.PageURL, cfg.Navigate),
		screen:   loadingScreen,
		todoList: todoList,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
		logger:   shared.WithLogger(cfg.Logger, "component", "tui"),
	}
}

// Init loads the first page.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.todoList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKeys(msg)
		}
		switch m.screen {
		case loginScreen:
			return m.handleLoginKeys(msg)
		case todoScreen:
			return m.handleTodoKeys(msg)
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case eventMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		m.apply(msg.msg)
		return m, m.bridge.next()

	case loadedMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		m.page = msg.page
		m.logger.Debug("page ready", "page", msg.page.ID(), "state", msg.page.State())
		return m, m.bridge.next()

	case actionMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		m.busy = ""
		if msg.err == nil {
			m.err = nil
		}
		if m.address.Reloaded() {
			return m, m.reload(m.address.URL())
		}
		if msg.op == "login" && msg.err == nil && m.cfg.AwaitRedirect != nil {
			m.status = "Waiting for GitHub to redirect back..."
			return m, m.awaitRedirect()
		}
		return m, nil

	case redirectMsg:
		m.status = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.reload(models.WithRedirect(m.cfg.PageURL, msg.redirect))
	}

	if m.screen == todoScreen && !m.adding {
		var cmd tea.Cmd
		m.todoList, cmd = m.todoList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply renders one controller event of the current page.
func (m *Model) apply(msg tea.Msg) {
	switch msg := msg.(type) {
	case screenMsg:
		m.screen = msg.screen
	case userMsg:
		m.user = &msg.user
	case todosMsg:
		m.todoList.SetItems(toListItems(msg.items))
	case countMsg:
		n := msg.count
		m.count = &n
	case reportMsg:
		m.err = msg.err
	case bindMsg:
		m.bindings = msg.bindings
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		return m, m.run("login", m.bindings.Login)
	}
	return m, nil
}

func (m *Model) handleTodoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		if m.bindings.Add == nil {
			return m, nil
		}
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.toggle):
		if it, ok := m.selected(); ok && m.bindings.Update != nil {
			update := m.bindings.Update
			return m, m.run("update", func(ctx context.Context) error { return update(ctx, it.ID, !it.Done) })
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if it, ok := m.selected(); ok && m.bindings.Delete != nil {
			del := m.bindings.Delete
			return m, m.run("delete", func(ctx context.Context) error { return del(ctx, it.ID) })
		}
		return m, nil
	case key.Matches(msg, m.keys.logout):
		return m, m.run("logout", m.bindings.Logout)
	case key.Matches(msg, m.keys.reload):
		return m, m.reload(m.address.URL())
	}

	var cmd tea.Cmd
	m.todoList, cmd = m.todoList.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		content := m.input.Value()
		m.adding = false
		m.input.Blur()
		add := m.bindings.Add
		if add == nil {
			return m, nil
		}
		return m, m.run("add", func(ctx context.Context) error { return add(ctx, content) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) selected() (models.TodoItem, bool) {
	it, ok := m.todoList.SelectedItem().(todoItem)
	if !ok {
		return models.TodoItem{}, false
	}
	return it.item, true
}

// run invokes a bound handler as a command. Unbound handlers are ignored.
func (m *Model) run(op string, handler func(ctx context.Context) error) tea.Cmd {
	if handler == nil {
		return nil
	}
	m.busy = op
	from := m.bridge
	return func() tea.Msg {
		return actionMsg{op: op, err: handler(m.ctx), from: from}
	}
}

// load runs a page over the current address. Its events are read once the load returns.
func (m *Model) load() tea.Cmd {
	address, view := m.address, m.bridge
	return func() tea.Msg {
		page := m.cfg.NewPage(address, view)
		page.Load(m.ctx)
		return loadedMsg{page: page, from: view}
	}
}

// reload discards the current page and every bound handler, then loads u.
//
// Events and results still in flight from the old page are dropped.
func (m *Model) reload(u *url.URL) tea.Cmd {
	m.bridge.stop()
	m.bridge = newBridge()
	m.address = auth.NewAddress(u, m.cfg.Navigate)
	m.bindings = auth.Bindings{}
	m.busy = ""
	m.page = nil
	m.user = nil
	m.count = nil
	m.err = nil
	m.screen = loadingScreen
	m.todoList.SetItems(nil)
	return m.load()
}

func (m *Model) awaitRedirect() tea.Cmd {
	return func() tea.Msg {
		r, err := m.cfg.AwaitRedirect(m.ctx)
		return redirectMsg{redirect: r, err: err}
	}
}

// View renders the UI based on the current screen.
func (m *Model) View() string {
	var b strings.Builder

	switch m.screen {
	case loginScreen:
		b.WriteString(m.renderLogin())
	case todoScreen:
		b.WriteString(m.renderTodos())
	default:
		b.WriteString(styles.title.Render("tdx"))
		b.WriteString("\nLoading...")
	}

	if m.count != nil {
		b.WriteString("\n\n" + styles.help.Render(fmt.Sprintf("%d users", *m.count)))
	}
	if m.busy != "" {
		b.WriteString("\n" + styles.warn.Render(m.busy+"..."))
	}
	if m.status != "" {
		b.WriteString("\n" + styles.warn.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("tdx")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.quit})
	return fmt.Sprintf("%s\nYou are not signed in.\n\n%s", title, helpView)
}

func (m *Model) renderTodos() string {
	header := styles.ok.Render("Signed in")
	if m.user != nil {
		header = styles.ok.Render(fmt.Sprintf("%s <%s>", m.user.Username, m.user.Email))
	}

	if m.adding {
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.cancel})
		return fmt.Sprintf("%s\n\n%s\n\n%s", header, m.input.View(), helpView)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.add, m.keys.toggle, m.keys.delete, m.keys.reload, m.keys.logout, m.keys.quit,
	})
	return fmt.Sprintf("%s\n\n%s\n\n%s", header, m.todoList.View(), helpView)
}
