package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/cardwar/internal/dependencies/random"
)

// MockRandom is a scripted Random for tests
type MockRandom struct {
	mu sync.Mutex

	intnResults []int
	intnIndex   int

	uuidResults []string
	uuidIndex   int
	uuidCount   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 once the queue is drained.
// Queued values are reduced modulo n.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || r.intnIndex >= len(r.intnResults) {
		return 0
	}
	v := r.intnResults[r.intnIndex] % n
	r.intnIndex++
	return v
}

// UUID returns the next queued id, or a sequential placeholder id
func (r *MockRandom) UUID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uuidIndex < len(r.uuidResults) {
		v := r.uuidResults[r.uuidIndex]
		r.uuidIndex++
		return v
	}
	r.uuidCount++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", r.uuidCount)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	r.intnResults = append(r.intnResults, values...)
	r.mu.Unlock()
}

// QueueUUID adds values to the UUID result queue
func (r *MockRandom) QueueUUID(values ...string) {
	r.mu.Lock()
	r.uuidResults = append(r.uuidResults, values...)
	r.mu.Unlock()
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults, r.intnIndex = nil, 0
	r.uuidResults, r.uuidIndex, r.uuidCount = nil, 0, 0
}
