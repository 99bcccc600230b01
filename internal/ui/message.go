package ui

import (
	"github.com/desertthunder/tdx/internal/auth"
	"github.com/desertthunder/tdx/internal/models"
)

// screen is the section of the page currently shown.
type screen int

const (
	loadingScreen screen = iota
	loginScreen
	todoScreen
)

type screenMsg struct{ screen screen }

type userMsg struct{ user models.User }

type todosMsg struct{ items []models.TodoItem }

type countMsg struct{ count int }

type reportMsg struct{ err error }

type bindMsg struct{ bindings auth.Bindings }

type loadedMsg struct {
	page *auth.Page
	from *bridge
}

// actionMsg reports that a bound handler returned.
type actionMsg struct {
	op   string
	err  error
	from *bridge
}

type redirectMsg struct {
	redirect models.Redirect
	err      error
}
