package types

import (
	"strconv"

	"github.com/google/uuid"
)

// ItemID identifies a card or a column. Cards and columns live in separate
// namespaces but share this type so both can appear as keys of the order
// relation.
type ItemID string

// NoItem is the zero ItemID. In a patch it means "remove this key".
const NoItem ItemID = ""

// IsZero reports whether id is NoItem
func (id ItemID) IsZero() bool {
	return id == NoItem
}

// String returns the raw identifier
func (id ItemID) String() string {
	return string(id)
}

// IDGenerator produces identifiers for new cards
type IDGenerator func() ItemID

// NewCardID returns a fresh random card identifier
func NewCardID() ItemID {
	return ItemID(uuid.NewString())
}

// SequentialIDs returns a generator producing prefix1, prefix2, ...
// Used by tests and seed data where stable ids are useful.
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() ItemID {
		n++
		return ItemID(prefix + strconv.Itoa(n))
	}
}

