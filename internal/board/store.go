package board

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Store is the persistence backend consumed by the board
type Store interface {
	ListColumns(ctx context.Context) ([]models.Column, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	GetCardsOrder(ctx context.Context) (order.Relation, error)

	CreateCard(ctx context.Context, card models.Card) error
	DeleteCard(ctx context.Context, id types.ItemID) error
	PatchCardsOrder(ctx context.Context, patch order.Patch) error
}
