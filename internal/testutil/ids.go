package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator issues ids of the form "<prefix>-0001", "<prefix>-0002".
//
// It satisfies postings.IDGenerator and never runs out, so scenarios can
// journal any number of instructions and still produce byte-identical
// golden output.
//
// Thread-safety: SequentialIDGenerator is safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix uses "instruction".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "instruction"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
