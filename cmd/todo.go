package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/tdx/internal/formatter"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

// TodoList prints the items of the signed-in user.
func (r *Runner) TodoList(ctx context.Context, cmd *cli.Command) error {
	view, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	items, _, _ := view.snapshot()
	if err := r.printItems(items, cmd.Bool("json")); err != nil {
		return err
	}
	return view.err()
}

// TodoAdd creates an item and prints the refreshed list.
func (r *Runner) TodoAdd(ctx context.Context, cmd *cli.Command) error {
	view, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	content := strings.Join(cmd.Args().Slice(), " ")
	if err := view.bound().Add(ctx, content); err != nil {
		return err
	}

	items, _, _ := view.snapshot()
	return r.printItems(items, cmd.Bool("json"))
}

// TodoDone marks an item done.
func (r *Runner) TodoDone(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(ctx, cmd, true)
}

// TodoUndo marks an item not done.
func (r *Runner) TodoUndo(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(ctx, cmd, false)
}

func (r *Runner) setDone(ctx context.Context, cmd *cli.Command, done bool) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	view, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := view.bound().Update(ctx, id, done); err != nil {
		return err
	}

	items, _, _ := view.snapshot()
	return r.printItems(items, cmd.Bool("json"))
}

// TodoDelete removes an item.
func (r *Runner) TodoDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	view, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := view.bound().Delete(ctx, id); err != nil {
		return err
	}

	items, _, _ := view.snapshot()
	return r.printItems(items, cmd.Bool("json"))
}

// TodoExport writes the list to a CSV, Markdown or plain text file.
func (r *Runner) TodoExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	view, err := r.authenticated(ctx)
	if err != nil {
		return err
	}
	if err := view.err(); err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	items, user, _ := view.snapshot()
	path, err := formatter.WriteExport(formatter.Export{User: user, Items: items}, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported items", "count", len(items), "path", path)
	return r.writePlain("✓ Exported %d items to %s\n", len(items), path)
}

func (r *Runner) printItems(items []models.TodoItem, asJSON bool) error {
	if asJSON {
		return r.writeJSON(items, false)
	}

	if len(items) == 0 {
		return r.writePlain("No items.\n")
	}

	for _, it := range items {
		mark := " "
		if it.Done {
			mark = "x"
		}
		if err := r.writePlain("[%s] %d  %s\n", mark, it.ID, it.Content); err != nil {
			return err
		}
	}
	return nil
}

func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: item id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: item id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
