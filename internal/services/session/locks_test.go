package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockTablePinAndUnpin(t *testing.T) {
	lt := newLockTable()

	lt.pin("a")
	assert.Equal(t, 1, lt.refs("a"))

	lt.unpin("a")
	assert.Equal(t, 0, lt.refs("a"))
	assert.Equal(t, 0, lt.size())
}

func TestLockTableAcquireWithoutPin(t *testing.T) {
	lt := newLockTable()

	release := lt.acquire("a")
	assert.Equal(t, 1, lt.refs("a"))

	release()
	assert.Equal(t, 0, lt.size())
}

func TestLockTableSameIDSharesLock(t *testing.T) {
	lt := newLockTable()
	lt.pin("a")

	first := lt.retain("a")
	second := lt.retain("a")

	assert.Same(t, first, second)
	assert.Equal(t, 3, lt.refs("a"))
}

func TestLockTableDropUnknownIsNoop(t *testing.T) {
	lt := newLockTable()

	lt.drop("missing")

	assert.Equal(t, 0, lt.size())
}

func TestLockTableSerializesHolders(t *testing.T) {
	lt := newLockTable()
	lt.pin("a")

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := lt.acquire("a")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, lt.refs("a"))
}

func TestLockTableDistinctIDsAreIndependent(t *testing.T) {
	lt := newLockTable()

	releaseA := lt.acquire("a")
	releaseB := lt.acquire("b")

	assert.Equal(t, 2, lt.size())
	releaseA()
	releaseB()
	assert.Equal(t, 0, lt.size())
}
