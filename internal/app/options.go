package app

import (
	"log/slog"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	store   board.Store
	logger  *slog.Logger
	idGen   types.IDGenerator
	onError func(*board.PersistError)
}

// WithStore uses store instead of the one selected by the config
func WithStore(store board.Store) Option {
	return func(cfg *appConfig) {
		cfg.store = store
	}
}

// WithLogger sets the logger used for persistence failures
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithIDGenerator sets the card id generator
func WithIDGenerator(gen types.IDGenerator) Option {
	return func(cfg *appConfig) {
		cfg.idGen = gen
	}
}

// WithPersistErrorHandler is called after a failed change has been logged
func WithPersistErrorHandler(fn func(*board.PersistError)) Option {
	return func(cfg *appConfig) {
		cfg.onError = fn
	}
}
