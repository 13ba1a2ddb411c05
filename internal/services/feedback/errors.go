package feedback

import "errors"

var (
	ErrInvalidRating = errors.New("rating must be a whole number between 1 and 5")
	ErrEventNotFound = errors.New("event not found")
)
