package board

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrNotLoaded indicates an operation before Load succeeded
	ErrNotLoaded = errors.New("board is not loaded")

	// ErrEmptyDraft indicates CreateCard on a column with no draft text
	ErrEmptyDraft = errors.New("draft text is empty")
)

// PersistError describes a background call that failed after all retries
type PersistError struct {
	TaskID   ulid.ULID
	Op       string
	Attempts int
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s (task %s) failed after %d attempt(s): %v", e.Op, e.TaskID, e.Attempts, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
