package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	jar         *session.Jar
	httpClient  *http.Client
	api         *services.APIService
	account     *services.AccountService
	todos       *services.TodoService
	presence    *services.PresenceService
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Jar backs the HTTP client. Defaults to an in-memory jar.
	Jar        *session.Jar
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// OpenBrowser navigates to the provider login page. Defaults to [shared.OpenBrowser].
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Jar == nil {
		opts.Jar = session.NewJar(session.NewMemoryStore(), opts.Logger)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Jar: opts.Jar}
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		jar:         opts.Jar,
		httpClient:  opts.HTTPClient,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
	r.SetLogger(opts.Logger)
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, statusCommand, loginCommand, logoutCommand, countCommand, todoCommand, sessionCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger rebuilds the REST stack so every component logs to l.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.jar.SetLogger(l)
	r.api = services.NewAPIService(r.config.API.BaseURL, r.httpClient, r.config.API.RateLimit, l)
	r.account = services.NewAccountService(r.api)
	r.todos = services.NewTodoService(r.api)
	r.presence = services.NewPresenceService(r.api)
}

// pageURL is the configured client page address.
func (r *Runner) pageURL() (*url.URL, error) {
	u, err := url.Parse(r.config.Client.PageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: client.page_url: %w", shared.ErrInvalidConfig, err)
	}
	return u, nil
}

// newPage builds one page load against the runner's backend and jar.
func (r *Runner) newPage(loc auth.Location, view auth.View) *auth.Page {
	apiURL, err := url.Parse(r.api.BaseURL())
	if err != nil {
		r.logger.Warn("api base url does not parse, session token cleanup is limited to the cookie domain", "error", err)
		apiURL = nil
	}

	cookie := r.config.Cookie
	cookie.Path = r.config.CookiePath()

	return auth.NewPage(auth.Options{
		Location:     loc,
		View:         view,
		Jar:          r.jar,
		Account:      r.account,
		Todos:        r.todos,
		Presence:     r.presence,
		APIURL:       apiURL,
		AuthorizeURL: r.config.AuthorizeURL(),
		Cookie:       cookie,
		Logger:       r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
