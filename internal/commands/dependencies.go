package commands

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/diogo/personachat/internal/api"
	"github.com/diogo/personachat/internal/config"
	"github.com/diogo/personachat/internal/controller"
	"github.com/diogo/personachat/internal/render"
	"github.com/diogo/personachat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *controller.Controller, catalog *config.PersonaCatalog, host string, opts render.Options) error
	RunConfig(ctx context.Context, cfg config.Config, catalog *config.PersonaCatalog) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client replaces the HTTP backend client when set.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard receives replies when copy_to_clipboard is enabled.
	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *controller.Controller, catalog *config.PersonaCatalog, host string, opts render.Options) error {
	return tui.RunChat(ctx, ctrl, catalog, host, opts)
}

func (d *DefaultTUI) RunConfig(ctx context.Context, cfg config.Config, catalog *config.PersonaCatalog) error {
	return tui.RunConfig(ctx, cfg, catalog)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
	}
}
