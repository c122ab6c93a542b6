package board

import (
	"context"
	"errors"
	"sync"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

var errBackendDown = errors.New("backend down")

// fakeStore is an in-memory Store that records every write. Writes block
// while gate is non-nil and open.
type fakeStore struct {
	mu      sync.Mutex
	columns []models.Column
	cards   map[types.ItemID]models.Card
	rel     order.Relation

	gate chan struct{}

	failColumns error
	failCards   error
	failOrder   error
	failWrites  int // number of write calls that fail before succeeding
	failPatches int // same, counting order patches only
	writeCalls  []string
	patches     []order.Patch
}

func newFakeStore(columns []models.Column, cards []models.Card, rel order.Relation) *fakeStore {
	s := &fakeStore{
		columns: columns,
		cards:   make(map[types.ItemID]models.Card),
		rel:     rel.Clone(),
	}
	for _, c := range cards {
		s.cards[c.ID] = c
	}
	return s
}

func (s *fakeStore) ListColumns(ctx context.Context) ([]models.Column, error) {
	if s.failColumns != nil {
		return nil, s.failColumns
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Column(nil), s.columns...), nil
}

func (s *fakeStore) ListCards(ctx context.Context) ([]models.Card, error) {
	if s.failCards != nil {
		return nil, s.failCards
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeStore) GetCardsOrder(ctx context.Context) (order.Relation, error) {
	if s.failOrder != nil {
		return nil, s.failOrder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rel.Clone(), nil
}

func (s *fakeStore) CreateCard(ctx context.Context, card models.Card) error {
	return s.write(ctx, "create "+string(card.ID), func() error {
		s.cards[card.ID] = card
		return nil
	})
}

func (s *fakeStore) DeleteCard(ctx context.Context, id types.ItemID) error {
	return s.write(ctx, "delete "+string(id), func() error {
		delete(s.cards, id)
		return nil
	})
}

func (s *fakeStore) PatchCardsOrder(ctx context.Context, patch order.Patch) error {
	return s.write(ctx, "patch", func() error {
		if s.failPatches > 0 {
			s.failPatches--
			return errBackendDown
		}
		s.patches = append(s.patches, patch)
		s.rel.Merge(patch)
		return nil
	})
}

func (s *fakeStore) write(ctx context.Context, name string, apply func() error) error {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeCalls = append(s.writeCalls, name)
	if s.failWrites > 0 {
		s.failWrites--
		return errBackendDown
	}
	return apply()
}

func (s *fakeStore) snapshot() (map[types.ItemID]models.Card, order.Relation, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make(map[types.ItemID]models.Card, len(s.cards))
	for k, v := range s.cards {
		cards[k] = v
	}
	return cards, s.rel.Clone(), append([]string(nil), s.writeCalls...)
}
