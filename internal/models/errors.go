package models

import "errors"

// Domain-specific validation errors shared by the stores and the board
var (
	// ErrEmptyCardText indicates an attempt to create a card without text
	ErrEmptyCardText = errors.New("card text cannot be empty")

	// ErrCardTextTooLong indicates card text over MaxCardTextLength
	ErrCardTextTooLong = errors.New("card text cannot exceed 1000 characters")

	// ErrInvalidCardID indicates an empty card identifier
	ErrInvalidCardID = errors.New("invalid card ID")
)

// ValidateCard checks a card before it is written to a store
func ValidateCard(c Card) error {
	if c.ID.IsZero() {
		return ErrInvalidCardID
	}
	if c.Text == "" {
		return ErrEmptyCardText
	}
	if len(c.Text) > MaxCardTextLength {
		return ErrCardTextTooLong
	}
	return nil
}
