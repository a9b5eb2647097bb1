package utils

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator hands out UUIDv7 ids. Being time-ordered, ids issued by
// the stream and HTTP transports of one worker sort by creation time in logs.
type UUIDGenerator struct {
	prefix string
}

// NewUUIDGenerator returns a generator whose ids start with prefix followed
// by "-". An empty prefix yields bare UUIDs.
func NewUUIDGenerator(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: strings.TrimSuffix(prefix, "-")}
}

// Generate returns a new id. uuid.NewV7 only fails when the random source
// does; a random v4 is used then.
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	if g.prefix == "" {
		return id.String()
	}
	return g.prefix + "-" + id.String()
}

// Valid reports whether id was produced by g.
func (g *UUIDGenerator) Valid(id string) bool {
	if g.prefix != "" {
		rest, ok := strings.CutPrefix(id, g.prefix+"-")
		if !ok {
			return false
		}
		id = rest
	}
	_, err := uuid.Parse(id)
	return err == nil
}
