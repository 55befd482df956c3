package order

import (
	"fmt"
	"math/rand/v2"
)

const (
	idPrefix      = "PEDIDO"
	idPartMin     = 1000
	idPartSpan    = 9000
	maxIDAttempts = 100
)

// IDGenerator produces confirmation numbers of the form PEDIDO-dddd-dddd.
type IDGenerator struct {
	rng *rand.Rand
}

// NewIDGenerator seeds from the runtime's random source.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededIDGenerator returns a deterministic generator, for tests.
func NewSeededIDGenerator(seed1, seed2 uint64) *IDGenerator {
	return &IDGenerator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *IDGenerator) part() int {
	return idPartMin + g.rng.IntN(idPartSpan)
}

func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d-%d", idPrefix, g.part(), g.part())
}

// NextUnique draws IDs until taken reports false for one.
func (g *IDGenerator) NextUnique(taken func(id string) bool) (string, error) {
	for range maxIDAttempts {
		id := g.Next()
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free order id after %d attempts", maxIDAttempts)
}
