package models

import "github.com/thenoetrevino/tablero/internal/types"

// DefaultColumns are seeded into an empty store
var DefaultColumns = []Column{
	{ID: types.ItemID("todo"), Title: "TODO"},
	{ID: types.ItemID("doing"), Title: "Doing"},
	{ID: types.ItemID("waiting"), Title: "Waiting"},
	{ID: types.ItemID("done"), Title: "Done"},
}

// MaxCardTextLength bounds card text accepted by the stores
const MaxCardTextLength = 1000
