package core

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new records.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) UUIDs.
type UUIDGenerator struct{}

var _ IDGenerator = UUIDGenerator{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SequenceGenerator generates monotonic ids: "1", "2", "3"...
// It is safe for concurrent use.
type SequenceGenerator struct {
	last uint64
}

var _ IDGenerator = (*SequenceGenerator)(nil)

func NewSequenceGenerator() *SequenceGenerator { return &SequenceGenerator{} }

func (g *SequenceGenerator) NewID() string {
	return strconv.FormatUint(atomic.AddUint64(&g.last, 1), 10)
}
