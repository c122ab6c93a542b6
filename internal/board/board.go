// Package board owns the local board state. Every mutation is committed to
// the in-memory order relation first and then persisted in the background.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/tablero/internal/filter"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Board is the single writer of the card set and the order relation
type Board struct {
	store      Store
	dispatcher *Dispatcher
	session    *session.Session
	newID      types.IDGenerator
	maxDist    int

	mu        sync.Mutex
	loaded    bool
	columns   []models.Column
	columnIDs []types.ItemID
	cards     map[types.ItemID]models.Card
	rel       order.Relation
	drafts    map[types.ItemID]string
	views     map[types.ItemID][]models.Card

	// pending holds order changes not yet accepted by the store. At most
	// one flush task runs at a time.
	syncMu  sync.Mutex
	pending order.Patch
	syncing bool
}

// Option is a functional option for configuring a Board
type Option func(*Board)

// WithIDGenerator sets the generator used for new card ids
func WithIDGenerator(gen types.IDGenerator) Option {
	return func(b *Board) {
		b.newID = gen
	}
}

// WithDispatcher sets the dispatcher used for background persistence
func WithDispatcher(d *Dispatcher) Option {
	return func(b *Board) {
		b.dispatcher = d
	}
}

// WithFilterDistance sets the per-word edit distance used by Filter
func WithFilterDistance(n int) Option {
	return func(b *Board) {
		b.maxDist = n
	}
}

// New creates an empty, not yet loaded board backed by store
func New(store Store, opts ...Option) *Board {
	b := &Board{
		store:   store,
		session: session.New(),
		newID:   types.NewCardID,
		maxDist: filter.DefaultMaxDistance,
		cards:   make(map[types.ItemID]models.Card),
		rel:     order.Relation{},
		drafts:  make(map[types.ItemID]string),
		views:   make(map[types.ItemID][]models.Card),
		pending: order.Patch{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dispatcher == nil {
		b.dispatcher = NewDispatcher(DispatcherConfig{})
	}
	return b
}

// Load fetches columns, then cards and the order relation concurrently, and
// replaces the local state. On failure the board stays unloaded. A relation
// that fails validation is logged and shown as far as it can be walked.
func (b *Board) Load(ctx context.Context) error {
	columns, err := b.store.ListColumns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	}

	var cards []models.Card
	var rel order.Relation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = b.store.ListCards(gctx)
		if err != nil {
			return fmt.Errorf("failed to load cards: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rel, err = b.store.GetCardsOrder(gctx)
		if err != nil {
			return fmt.Errorf("failed to load cards order: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	columnIDs := make([]types.ItemID, len(columns))
	for i, c := range columns {
		columnIDs[i] = c.ID
	}
	if err := rel.Validate(columnIDs); err != nil {
		slog.Error("cards order failed validation, showing what can be walked", "error", err)
	}

	cardMap := make(map[types.ItemID]models.Card, len(cards))
	for _, c := range cards {
		cardMap[c.ID] = c
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.columns = columns
	b.columnIDs = columnIDs
	b.cards = cardMap
	b.rel = rel.Clone()
	b.views = make(map[types.ItemID][]models.Card, len(columns))
	for _, id := range columnIDs {
		b.rematerializeLocked(id)
	}
	b.loaded = true

	slog.Info("board loaded", "columns", len(columns), "cards", len(cards))
	return nil
}

// Loaded reports whether Load has succeeded
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Columns returns the columns in display order
func (b *Board) Columns() []models.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.columns)
}

// Cards returns the ordered cards of a column
func (b *Board) Cards(columnID types.ItemID) []models.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.views[columnID])
}

// Card looks a card up by id
func (b *Board) Card(id types.ItemID) (models.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[id]
	return c, ok
}

// ColumnOf returns the column currently holding a card
func (b *Board) ColumnOf(id types.ItemID) (types.ItemID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rel.ColumnOf(id, b.columnIDs)
}

// Relation returns a copy of the local order relation
func (b *Board) Relation() order.Relation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rel.Clone()
}

// Draft returns the text being composed for a column
func (b *Board) Draft(columnID types.ItemID) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drafts[columnID]
}

// SetDraft updates the text being composed for a column
func (b *Board) SetDraft(columnID types.ItemID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.isColumnLocked(columnID) {
		return
	}
	b.drafts[columnID] = text
}

// Filter returns, per column, the cards whose text matches query, in order
func (b *Board) Filter(query string) map[types.ItemID][]models.Card {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[types.ItemID][]models.Card, len(b.columnIDs))
	for _, col := range b.columnIDs {
		matched := make([]models.Card, 0)
		for _, c := range b.views[col] {
			if filter.Match(c.Text, query, b.maxDist) {
				matched = append(matched, c)
			}
		}
		out[col] = matched
	}
	return out
}

// MoveCard places subject before target (a card) or at the end of target (a
// column). The local state reflects the move when MoveCard returns; the
// backend is patched in the background. Unknown ids are a no-op.
func (b *Board) MoveCard(subject, target types.ItemID) (order.Patch, error) {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if _, ok := b.cards[subject]; !ok {
		b.mu.Unlock()
		return order.Patch{}, nil
	}
	patch := order.ComputeMovePatch(b.rel, b.columnIDs, subject, target)
	b.commitLocked(patch)
	if !patch.IsEmpty() {
		b.persistPatch(patch)
	}
	b.mu.Unlock()
	return patch, nil
}

// CreateCard turns the column's draft into a card at the head of the column
// and clears the draft
func (b *Board) CreateCard(columnID types.ItemID) (models.Card, error) {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return models.Card{}, ErrNotLoaded
	}
	if !b.isColumnLocked(columnID) {
		b.mu.Unlock()
		return models.Card{}, nil
	}
	text := strings.TrimSpace(b.drafts[columnID])
	if text == "" {
		b.mu.Unlock()
		return models.Card{}, ErrEmptyDraft
	}

	card := models.Card{ID: b.newID(), Text: text}
	if err := models.ValidateCard(card); err != nil {
		b.mu.Unlock()
		return models.Card{}, err
	}

	target := columnID
	if first, ok := b.rel.Next(columnID); ok {
		target = first
	}
	patch := order.ComputeMovePatch(b.rel, b.columnIDs, card.ID, target)

	b.cards[card.ID] = card
	b.drafts[columnID] = ""
	b.commitLocked(patch)
	b.persistPatch(patch)
	b.mu.Unlock()

	b.dispatcher.Go("create card", func(ctx context.Context) error {
		return b.store.CreateCard(ctx, card)
	})
	return card, nil
}

// DeleteCard removes a card locally and then from the backend. Unknown ids
// are a no-op.
func (b *Board) DeleteCard(id types.ItemID) error {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := b.cards[id]; !ok {
		b.mu.Unlock()
		return nil
	}
	patch := order.ComputeDeletePatch(b.rel, id)
	col, placed := b.rel.ColumnOf(id, b.columnIDs)

	delete(b.cards, id)
	b.commitLocked(patch)
	if placed {
		b.rematerializeLocked(col)
	}
	if !patch.IsEmpty() {
		b.persistPatch(patch)
	}
	b.mu.Unlock()

	b.dispatcher.Go("delete card", func(ctx context.Context) error {
		return b.store.DeleteCard(ctx, id)
	})
	return nil
}

// OnCardDragStart begins dragging a card
func (b *Board) OnCardDragStart(id types.ItemID) {
	b.session.BeginDrag(id)
}

// OnCardDrop ends the drag over target and applies the resulting move.
// Dropping while nothing is dragged does nothing.
func (b *Board) OnCardDrop(target types.ItemID) (order.Patch, error) {
	intent, ok := b.session.Drop(target)
	if !ok {
		return order.Patch{}, nil
	}
	return b.MoveCard(intent.Subject, intent.Target)
}

// OnCardDragCancel abandons the drag in progress
func (b *Board) OnCardDragCancel() {
	b.session.Cancel()
}

// Dragging returns the card being dragged, if any
func (b *Board) Dragging() (types.ItemID, bool) {
	return b.session.Dragging()
}

// Dispatcher exposes background task counters
func (b *Board) Dispatcher() *Dispatcher {
	return b.dispatcher
}

// Wait blocks until all background persistence has finished or ctx is done
func (b *Board) Wait(ctx context.Context) error {
	return b.dispatcher.Wait(ctx)
}

// commitLocked merges patch into the relation and re-materializes the columns
// it touches. b.mu must be held.
func (b *Board) commitLocked(patch order.Patch) {
	if patch.IsEmpty() {
		return
	}
	affected := make(map[types.ItemID]bool)
	for _, k := range patch.Keys() {
		if col, ok := b.rel.ColumnOf(k, b.columnIDs); ok {
			affected[col] = true
		}
	}

	b.rel.Merge(patch)

	for _, k := range patch.Keys() {
		if col, ok := b.rel.ColumnOf(k, b.columnIDs); ok {
			affected[col] = true
		}
	}
	for col := range affected {
		b.rematerializeLocked(col)
	}
}

func (b *Board) rematerializeLocked(col types.ItemID) {
	seq, err := order.Materialize(b.cards, b.rel, col)
	if err != nil {
		slog.Error("order relation corrupt, showing partial column", "column", col, "error", err)
	}
	b.views[col] = seq
}

func (b *Board) isColumnLocked(id types.ItemID) bool {
	return slices.Contains(b.columnIDs, id)
}

// persistPatch queues patch for the store. b.mu must be held so patches queue
// in commit order. Queued patches are overlaid and sent by a single flush
// task, so a retried write always carries the newest value of every key it
// touches.
func (b *Board) persistPatch(patch order.Patch) {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	b.pending = b.pending.Overlay(patch)
	if !b.syncing {
		b.syncing = true
		b.startFlushLocked()
	}
}

// startFlushLocked dispatches a flush task. b.syncMu must be held.
func (b *Board) startFlushLocked() {
	b.dispatcher.GoThen("patch cards order", b.flushOrder, func(err error) {
		if err == nil {
			return
		}
		// give up for now; the batch stays pending until the next patch
		b.syncMu.Lock()
		b.syncing = false
		b.syncMu.Unlock()
	})
}

func (b *Board) flushOrder(ctx context.Context) error {
	b.syncMu.Lock()
	batch := b.pending
	b.pending = order.Patch{}
	b.syncMu.Unlock()

	if batch.IsEmpty() {
		b.finishFlush()
		return nil
	}

	if err := b.store.PatchCardsOrder(ctx, batch); err != nil {
		b.syncMu.Lock()
		b.pending = batch.Overlay(b.pending)
		b.syncMu.Unlock()
		return err
	}

	b.finishFlush()
	return nil
}

// finishFlush ends the flush chain, or starts the next flush when patches
// were queued while the last one was in flight
func (b *Board) finishFlush() {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	if b.pending.IsEmpty() {
		b.syncing = false
		return
	}
	b.startFlushLocked()
}
