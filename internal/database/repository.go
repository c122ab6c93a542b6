package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding and
// satisfies board.Store.
type Repository struct {
	*ColumnRepo
	*CardRepo
	*OrderRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ColumnRepo: &ColumnRepo{db: db},
		CardRepo:   &CardRepo{db: db},
		OrderRepo:  &OrderRepo{db: db},
	}
}

func (r *Repository) ListColumns(ctx context.Context) ([]models.Column, error) {
	return r.ColumnRepo.List(ctx)
}

func (r *Repository) ListCards(ctx context.Context) ([]models.Card, error) {
	return r.CardRepo.List(ctx)
}

func (r *Repository) GetCard(ctx context.Context, id types.ItemID) (models.Card, error) {
	return r.CardRepo.Get(ctx, id)
}

func (r *Repository) CreateCard(ctx context.Context, card models.Card) error {
	return r.CardRepo.Create(ctx, card)
}

func (r *Repository) DeleteCard(ctx context.Context, id types.ItemID) error {
	return r.CardRepo.Delete(ctx, id)
}

func (r *Repository) GetCardsOrder(ctx context.Context) (order.Relation, error) {
	return r.OrderRepo.Get(ctx)
}

func (r *Repository) PatchCardsOrder(ctx context.Context, patch order.Patch) error {
	return r.OrderRepo.Patch(ctx, patch)
}
