package eventpublisher

import (
	"github.com/google/uuid"
)

// UUIDGenerator generates UUID-based event IDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate generates a new UUID.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
