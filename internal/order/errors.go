package order

import "errors"

var (
	// ErrCorruptRelation indicates a chain that revisits an item or is longer
	// than the number of known cards
	ErrCorruptRelation = errors.New("order relation is corrupt")

	// ErrDuplicateSuccessor indicates two keys pointing at the same item
	ErrDuplicateSuccessor = errors.New("item has more than one predecessor")

	// ErrCycle indicates a chain that loops back on itself
	ErrCycle = errors.New("order relation contains a cycle")

	// ErrOrphanChain indicates a key that is not reachable from any column
	ErrOrphanChain = errors.New("order relation contains an unreachable chain")
)
