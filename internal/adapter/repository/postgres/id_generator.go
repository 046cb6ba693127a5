package postgres

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// RunIDGenerator issues lexically sortable assembly run IDs.
type RunIDGenerator struct{}

// NewRunIDGenerator creates a new RunIDGenerator.
func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{}
}

// Generate returns a lower-case ULID. Later runs sort after earlier ones.
func (g *RunIDGenerator) Generate() string {
	return strings.ToLower(ulid.Make().String())
}
