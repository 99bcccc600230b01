package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/tasks"
)

// AccountAPI is the subset of the REST client the controller needs. [services.AccountService] implements it.
type AccountAPI interface {
	Me(ctx context.Context) (*models.User, error)
	InitLogin(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, r models.Redirect) error
	Logout(ctx context.Context) error
}

// Options wires a [Page].
type Options struct {
	Location Location
	View     View
	Jar      *session.Jar
	Account  AccountAPI
	Todos    tasks.TodoAPI
	Presence tasks.CountAPI

	// APIURL is the backend origin; the session token cookie is scoped to its host.
	APIURL *url.URL
	// AuthorizeURL is the provider endpoint login redirects must point at.
	AuthorizeURL string
	Cookie       shared.CookieConfig
	Logger       *log.Logger
}

// Page is one page load.
//
// The state is evaluated once, from a single read of the session marker and the address, and
// exactly one branch runs. Nothing transitions in place afterwards: logout reloads, and the owner
// builds a new Page.
type Page struct {
	id       string
	opts     Options
	todos    *tasks.TodoSync
	presence *tasks.PresenceCounter
	logger   *log.Logger

	once  sync.Once
	state State
}

// NewPage creates a [Page]. Call [Page.Load] to run it.
func NewPage(opts Options) *Page {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Cookie.Path == "" {
		opts.Cookie.Path = "/"
	}

	id := shared.GenerateID()
	logger := shared.WithLogger(opts.Logger, "page", id)

	return &Page{
		id:       id,
		opts:     opts,
		todos:    tasks.NewTodoSync(opts.Todos, opts.View, logger),
		presence: tasks.NewPresenceCounter(opts.Presence, opts.View, logger),
		logger:   logger,
	}
}

// ID identifies the load in logs.
func (p *Page) ID() string {
	return p.id
}

// State returns the evaluated state. It is [Anonymous] until [Page.Load] runs.
func (p *Page) State() State {
	return p.state
}

// Items returns the last rendered item list.
func (p *Page) Items() []models.TodoItem {
	return p.todos.Items()
}

// Load evaluates the state and runs its entry actions. Calls after the first are no-ops.
func (p *Page) Load(ctx context.Context) State {
	p.once.Do(func() {
		marker, ok := p.opts.Jar.Marker(p.opts.Location.URL())
		redirect := models.RedirectFrom(p.opts.Location.URL())

		p.state = Evaluate(ok && marker.Value != "", redirect)
		p.logger.Info("page loaded", "state", p.state)

		switch p.state {
		case Authenticated:
			p.enterAuthenticated(ctx)
		case OAuthPending:
			p.completeLogin(ctx, redirect)
		default:
			p.enterAnonymous()
		}

		p.presence.RefreshCount(ctx)
	})
	return p.state
}

func (p *Page) enterAnonymous() {
	p.opts.View.ShowLogin()
	p.opts.View.Bind(Bindings{Login: p.login})
}

func (p *Page) enterAuthenticated(ctx context.Context) {
	p.opts.View.ShowTodos()
	p.fetchUser(ctx)
	p.bindSession()
	p.initialList(ctx)
}

// completeLogin performs the one exchange this load is allowed. The redirect parameters are
// stripped from the address whatever the outcome, so a reload cannot replay a spent code.
func (p *Page) completeLogin(ctx context.Context, redirect models.Redirect) {
	err := p.opts.Account.CompleteLogin(ctx, redirect)
	p.opts.Location.Replace(models.StripRedirect(p.opts.Location.URL()))

	if err != nil {
		p.fail("login exchange", err)
		p.enterAnonymous()
		return
	}

	if err := p.opts.Jar.Set(ctx, p.opts.Location.URL(), p.markerCookie()); err != nil {
		p.fail("set session marker", err)
	}

	p.logger.Info("login completed")
	p.opts.View.ShowTodos()
	p.fetchUser(ctx)
	p.presence.RefreshCount(ctx)
	p.bindSession()
	p.initialList(ctx)
}

func (p *Page) markerCookie() *http.Cookie {
	return MarkerCookie(p.opts.Cookie)
}

// MarkerCookie is the client-written session marker with the configured attributes.
func MarkerCookie(c shared.CookieConfig) *http.Cookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:        session.MarkerName,
		Value:       "true",
		Domain:      c.Domain,
		Path:        path,
		MaxAge:      c.MaxAge,
		Secure:      true,
		Partitioned: true,
	}
}

// fetchUser renders the profile. A failure keeps the session and leaves the profile blank.
func (p *Page) fetchUser(ctx context.Context) {
	user, err := p.opts.Account.Me(ctx)
	if err != nil {
		p.fail("fetch user", err)
		return
	}
	p.opts.View.RenderUser(*user)
}

func (p *Page) initialList(ctx context.Context) {
	if _, err := p.todos.List(ctx); err != nil {
		p.fail("list items", err)
	}
}

func (p *Page) bindSession() {
	p.opts.View.Bind(Bindings{
		Logout: p.logout,
		Add:    p.add,
		Update: p.update,
		Delete: p.delete,
	})
}

// login asks the backend for the provider URL and navigates to it after checking it targets
// the configured authorize endpoint.
func (p *Page) login(ctx context.Context) error {
	target, err := p.opts.Account.InitLogin(ctx)
	if err == nil {
		err = verifyRedirect(target, p.opts.AuthorizeURL)
	}
	if err == nil {
		err = p.opts.Location.Assign(target)
	}
	if err != nil {
		p.fail("login", err)
		return err
	}

	p.logger.Info("navigating to provider", "host", hostOf(target))
	return nil
}

// logout invalidates the session remotely on a best-effort basis, then always clears the
// local cookies and reloads.
//
// The remote call goes first so the server still receives the session token.
func (p *Page) logout(ctx context.Context) error {
	if err := p.opts.Account.Logout(ctx); err != nil {
		p.logger.Warn("remote logout failed, clearing local session anyway", "kind", shared.Classify(err), "error", err)
	}

	var errs []error
	cookie := p.opts.Cookie
	page := p.opts.Location.URL()
	errs = append(errs, p.opts.Jar.Expire(ctx, page, session.MarkerName, cookie.Domain, cookie.Path))
	errs = append(errs, p.opts.Jar.Expire(ctx, page, session.TokenName, cookie.Domain, cookie.Path))
	if p.opts.APIURL != nil {
		errs = append(errs, p.opts.Jar.Expire(ctx, p.opts.APIURL, session.TokenName, "", "/"))
	}

	p.logger.Info("logged out")
	p.opts.Location.Reload()

	if err := errors.Join(errs...); err != nil {
		p.fail("clear session", err)
		return err
	}
	return nil
}

func (p *Page) add(ctx context.Context, content string) error {
	if err := p.todos.Add(ctx, content); err != nil {
		p.fail("add item", err)
		return err
	}
	return nil
}

func (p *Page) update(ctx context.Context, id int64, done bool) error {
	if err := p.todos.Update(ctx, id, done); err != nil {
		p.fail("update item", err)
		return err
	}
	return nil
}

func (p *Page) delete(ctx context.Context, id int64) error {
	if err := p.todos.Delete(ctx, id); err != nil {
		p.fail("delete item", err)
		return err
	}
	return nil
}

func (p *Page) fail(op string, err error) {
	p.logger.Error(op+" failed", "kind", shared.Classify(err), "error", err)
	p.opts.View.Report(fmt.Errorf("%s: %w", op, err))
}

// verifyRedirect checks that target has the scheme, host and path of the authorize endpoint.
func verifyRedirect(target, authorizeURL string) error {
	want, err := url.Parse(authorizeURL)
	if err != nil {
		return fmt.Errorf("%w: authorize url: %w", shared.ErrInvalidConfig, err)
	}

	got, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrUntrustedURL, err)
	}

	if got.Scheme != want.Scheme || !strings.EqualFold(got.Host, want.Host) || got.Path != want.Path {
		return fmt.Errorf("%w: %s", shared.ErrUntrustedURL, hostOf(target))
	}
	return nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
