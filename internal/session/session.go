// Package session tracks the drag gesture in progress and turns a drop into
// a move intent.
package session

import (
	"sync"

	"github.com/thenoetrevino/tablero/internal/types"
)

// State is the drag state of a session
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Intent asks for Subject to be placed before Target. Target may be a card or
// a column id.
type Intent struct {
	Subject types.ItemID
	Target  types.ItemID
}

// Session holds the state of a single drag gesture
type Session struct {
	mu      sync.Mutex
	state   State
	subject types.ItemID
}

// New returns an idle session
func New() *Session {
	return &Session{}
}

// BeginDrag records the card being dragged. Starting a new drag while one is
// in progress replaces the subject.
func (s *Session) BeginDrag(id types.ItemID) {
	if id.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Dragging
	s.subject = id
}

// Drop ends the drag over target and returns the move intent. Dropping while
// idle, or onto NoItem, returns false. The session is idle afterwards either way.
func (s *Session) Drop(target types.ItemID) (Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Dragging {
		return Intent{}, false
	}
	intent := Intent{Subject: s.subject, Target: target}
	s.reset()

	if target.IsZero() {
		return Intent{}, false
	}
	return intent, true
}

// Cancel abandons the drag
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subject returns the card being dragged, or NoItem when idle
func (s *Session) Subject() types.ItemID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

// Dragging returns the subject and true while a drag is in progress. Both
// are read under one lock.
func (s *Session) Dragging() (types.ItemID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Dragging {
		return types.NoItem, false
	}
	return s.subject, true
}

func (s *Session) reset() {
	s.state = Idle
	s.subject = types.NoItem
}
