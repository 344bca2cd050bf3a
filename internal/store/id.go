package store

import "github.com/google/uuid"

const idPrefix = "c"

// NewID returns "c" followed by a version 7 UUID: a millisecond timestamp plus 74 random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return idPrefix + id.String()
}
