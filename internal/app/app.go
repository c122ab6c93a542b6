// Package app wires a configured store to a Board
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/client"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/filestore"
)

// App holds the store and the board built on it.
// This is the main application container that manages resource lifecycles.
type App struct {
	Config *config.Config
	Store  board.Store
	Board  *board.Board

	db *sql.DB
}

// New opens the store selected by cfg and creates an unloaded Board.
// A non-empty server URL wins over the local storage driver.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg}
	if o.store != nil {
		a.Store = o.store
	} else if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	dispatcher := board.NewDispatcher(board.DispatcherConfig{
		Timeout:      cfg.Sync.Timeout,
		Retries:      cfg.Sync.Retries,
		RetryBackoff: cfg.Sync.RetryBackoff,
		OnError: func(perr *board.PersistError) {
			o.logger.Error("change was not saved", "task", perr.TaskID, "op", perr.Op, "error", perr.Err)
			if o.onError != nil {
				o.onError(perr)
			}
		},
	})

	boardOpts := []board.Option{
		board.WithDispatcher(dispatcher),
		board.WithFilterDistance(cfg.Filter.MaxDistance),
	}
	if o.idGen != nil {
		boardOpts = append(boardOpts, board.WithIDGenerator(o.idGen))
	}
	a.Board = board.New(a.Store, boardOpts...)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.Config.Server.URL != "" {
		a.Store = client.New(a.Config.Server.URL, a.Config.Sync.Timeout)
		return nil
	}

	switch a.Config.Storage.Driver {
	case config.DriverFile:
		path := a.Config.Storage.Path
		if path == "" {
			dbPath, err := database.DefaultPath()
			if err != nil {
				return err
			}
			path = filepath.Join(filepath.Dir(dbPath), "board.json")
		}
		fs, err := filestore.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file store: %w", err)
		}
		a.Store = fs
	default:
		path := a.Config.Storage.Path
		if path == "" {
			var err error
			if path, err = database.DefaultPath(); err != nil {
				return err
			}
		}
		db, err := database.InitDB(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		a.Store = database.NewRepository(db)
	}
	return nil
}

// Close waits for in-flight persistence, then releases the store
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Board != nil {
		if err := a.Board.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pending changes not flushed: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
