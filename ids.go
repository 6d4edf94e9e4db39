package delos

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewTraceID returns a random trace id: 32 lowercase hex characters.
func NewTraceID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewSpanID returns a random span id: 16 lowercase hex characters.
func NewSpanID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}
