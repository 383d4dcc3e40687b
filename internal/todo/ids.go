package todo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces candidate task ids.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// NewID calls f.
func (f IDFunc) NewID() string { return f() }

// TimeOrderedIDs generates UUIDv7 ids, which sort by creation time.
type TimeOrderedIDs struct{}

// NewID returns a new UUIDv7 string, falling back to a random UUID if
// the v7 generator fails.
func (TimeOrderedIDs) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SequenceIDs yields prefix1, prefix2, ... Useful for deterministic tests.
type SequenceIDs struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next)
}
