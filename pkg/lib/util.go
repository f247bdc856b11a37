package lib

import (
	"github.com/google/uuid"
)

// NewID generates a random identifier for a process handle (UUID v4).
func NewID() string {
	return uuid.NewString()
}
