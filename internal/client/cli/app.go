// Package cli implements the interactive terminal client: numbered menus
// for authentication and mail handling, driving the wire protocol through
// the client package.
package cli

import (
	"bufio"
	"os"

	"github.com/dmitrijs2005/gophmail/internal/client/client"
	"github.com/dmitrijs2005/gophmail/internal/client/config"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

// mailService is the protocol surface the menus need. The real
// client.Client satisfies it; tests provide a stub.
type mailService interface {
	Register(username, password string) error
	Login(username, password string) error
	Logout() error
	Bye() error
	Inbox() ([]string, error)
	Email(choice int) (*protocol.EmailPayload, error)
	Send(email protocol.EmailPayload) error
	Stats() (*protocol.StatsPayload, error)
}

type App struct {
	config   *config.Config
	service  mailService
	username string
	reader   *bufio.Reader
}

// NewApp connects to the configured server and prepares the menu loop.
func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.Dial(c.ServerAddr, c.DialTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  c,
		service: apiClient,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.username != ""
}
