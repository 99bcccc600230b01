// Package ui implements an interactive terminal client using bubbletea's Elm architecture.
//
// The [Model] hosts one page load at a time. The controller renders into it through an
// [auth.View] bridge that forwards every call as a program message, so rendering and handler
// rebinding happen on the program loop.
//
// Screens follow the controller's state: a login prompt while anonymous and the item list once
// signed in. A reload, requested by logout or the r key, drops the page together with its
// bindings and builds a new one from the current address.
//
// After login, the model waits for the provider redirect and reloads at the page address with
// code and state, which lets the controller perform the exchange.
//
// Keyboard navigation uses vim-style bindings (j/k, a, space, d, o, r, q) with contextual help via charmbracelet/bubbles/help.
package ui
