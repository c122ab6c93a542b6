package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/config"
)

// closeTimeout bounds how long a command waits for background persistence
// before exiting
const closeTimeout = 30 * time.Second

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with the board and its store
	ctx context.Context

	closeOnce sync.Once
	closeErr  error
}

// NewCLI loads the configuration, opens the configured store and loads the
// board
func NewCLI(ctx context.Context, opts ...app.Option) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	styles.Init(cfg.Theme)

	application, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	if err := application.Board.Load(ctx); err != nil {
		_ = application.Close(ctx)
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	return &CLI{App: application, ctx: ctx}, nil
}

// Close flushes pending changes and releases the store. It reports changes
// that could not be saved. Safe to call more than once.
func (c *CLI) Close() error {
	c.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), closeTimeout)
		defer cancel()
		if err := c.App.Close(ctx); err != nil {
			c.closeErr = err
			return
		}
		if n := c.App.Board.Dispatcher().Failures(); n > 0 {
			c.closeErr = fmt.Errorf("%d change(s) could not be saved, see the log for details", n)
		}
	})
	return c.closeErr
}
