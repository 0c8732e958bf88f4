package storage

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Id schemes accepted by NewIDGenerator.
const (
	SchemeSequential = "sequential"
	SchemeUUID       = "uuid"
)

// IDGenerator hands out alert ids. Ids are never reused, even after deletes.
type IDGenerator interface {
	Next() string
}

// SequentialIDs yields "1", "2", "3", ... from an atomic counter.
type SequentialIDs struct {
	n atomic.Int64
}

// NewSequentialIDs creates a counter that starts at 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

func (s *SequentialIDs) Next() string {
	return strconv.FormatInt(s.n.Add(1), 10)
}

// Advance moves the counter forward so the next id is greater than n.
func (s *SequentialIDs) Advance(n int64) {
	for {
		cur := s.n.Load()
		if cur >= n || s.n.CompareAndSwap(cur, n) {
			return
		}
	}
}

// UUIDs yields random version 4 UUIDs.
type UUIDs struct{}

func (UUIDs) Next() string { return uuid.NewString() }

// NewIDGenerator returns the generator for a configured scheme.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", SchemeSequential:
		return NewSequentialIDs(), nil
	case SchemeUUID:
		return UUIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}
