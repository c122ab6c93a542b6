// Package filestore keeps the whole board in a single JSON document that is
// rewritten atomically on every change.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// document is the on-disk layout
type document struct {
	Columns []models.Column              `json:"columns"`
	Cards   map[types.ItemID]models.Card `json:"cards"`
	Order   order.Relation               `json:"cards_order"`
}

// Store is a file-backed board store. It is safe for concurrent use.
type Store struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open loads the document at path, creating it with the default columns if
// it does not exist
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = document{
			Columns: slices.Clone(models.DefaultColumns),
			Cards:   make(map[types.ItemID]models.Card),
			Order:   order.Relation{},
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.doc.Cards == nil {
		s.doc.Cards = make(map[types.ItemID]models.Card)
	}
	if s.doc.Order == nil {
		s.doc.Order = order.Relation{}
	}
	return s, nil
}

// Path returns the document location
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ListColumns(ctx context.Context) ([]models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.Columns), nil
}

func (s *Store) ListCards(ctx context.Context) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]models.Card, 0, len(s.doc.Cards))
	for _, c := range s.doc.Cards {
		cards = append(cards, c)
	}
	return cards, nil
}

func (s *Store) GetCardsOrder(ctx context.Context) (order.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Order.Clone(), nil
}

func (s *Store) CreateCard(ctx context.Context, card models.Card) error {
	if err := models.ValidateCard(card); err != nil {
		return err
	}
	return s.update(ctx, func(doc *document) {
		doc.Cards[card.ID] = card
	})
}

func (s *Store) DeleteCard(ctx context.Context, id types.ItemID) error {
	return s.update(ctx, func(doc *document) {
		delete(doc.Cards, id)
	})
}

func (s *Store) PatchCardsOrder(ctx context.Context, patch order.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	return s.update(ctx, func(doc *document) {
		doc.Order.Merge(patch)
	})
}

// update applies fn and rewrites the file. If the write fails the in-memory
// document is restored so memory and disk agree.
func (s *Store) update(ctx context.Context, fn func(doc *document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.cloneLocked()
	fn(&s.doc)
	if err := s.flushLocked(); err != nil {
		s.doc = backup
		return err
	}
	return nil
}

func (s *Store) cloneLocked() document {
	cards := make(map[types.ItemID]models.Card, len(s.doc.Cards))
	for k, v := range s.doc.Cards {
		cards[k] = v
	}
	return document{
		Columns: slices.Clone(s.doc.Columns),
		Cards:   cards,
		Order:   s.doc.Order.Clone(),
	}
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
