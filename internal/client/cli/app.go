// Package cli implements the interactive notes client. It wraps the HTTP API
// client with a small REPL so notes can be managed from a terminal.
package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/janegov/notesapi/internal/client/api"
	"github.com/janegov/notesapi/internal/client/config"
)

type App struct {
	config    *config.Config
	client    *api.Client
	userEmail string
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerBaseURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.client.IsAuthenticated()
}

// showLogin renders the prompt status segment.
func (a *App) showLogin() string {
	if a.isLoggedIn() {
		return a.userEmail
	}
	return "not logged in"
}
