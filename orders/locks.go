package orders

import "sync"

// keyedLocks serializes all lifecycle operations per order id, so two
// concurrent requests against the same order cannot race past each other to
// an inconsistent status or amount-paid. Entries are tiny and kept for the
// life of the process.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uint]*sync.Mutex)}
}

// acquire locks the order's mutex and returns the unlock function.
func (k *keyedLocks) acquire(orderID uint) func() {
	k.mu.Lock()
	m, ok := k.locks[orderID]
	if !ok {
		m = &sync.Mutex{}
		k.locks[orderID] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
