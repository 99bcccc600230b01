// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func idArgument() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "id",
			UsageText: "item id",
		},
	}
}

// setupCommand handles setup of the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the cookie store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// statusCommand loads the client page and reports its state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show session state, signed-in user and user count",
		Action: r.Status,
	}
}

// loginCommand signs in through GitHub.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Sign in with GitHub in the browser",
		Action: r.Login,
	}
}

// logoutCommand ends the session.
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and clear the local session",
		Action: r.Logout,
	}
}

// countCommand prints the user count.
func countCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "count",
		Usage:  "Show the number of registered users",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Count,
	}
}

// todoCommand handles item operations for the signed-in user.
func todoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "todo",
		Aliases: []string{"t"},
		Usage:   "Manage todo items",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List items",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.TodoList,
			},
			{
				Name:      "add",
				Usage:     "Add an item",
				ArgsUsage: "<content>",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.TodoAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark an item done",
				Arguments: idArgument(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.TodoDone,
			},
			{
				Name:      "undo",
				Usage:     "Mark an item not done",
				Arguments: idArgument(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.TodoUndo,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete an item",
				Arguments: idArgument(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.TodoDelete,
			},
			{
				Name:  "export",
				Usage: "Export items to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, txt)",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: todo.{format})",
					},
				},
				Action: r.TodoExport,
			},
		},
	}
}

// sessionCommand handles the local cookie store.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect, import or clear the local session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List stored cookies (HttpOnly values are hidden)",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:  "import",
				Usage: "Adopt a browser session from a cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SessionImport,
			},
			{
				Name:   "clear",
				Usage:  "Drop every stored cookie without contacting the backend",
				Action: r.SessionClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal client",
		Action:  r.TUI,
	}
}
