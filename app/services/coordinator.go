package services

import (
	"fmt"
	"sync"
	"time"

	"bot-registry/app/clients"
	"bot-registry/app/domains"
)

// Coordinator serializes every access to the registry store behind one mutex.
// Registry traffic is control-plane sized, so a single lock covers all bots.
type Coordinator struct {
	mu      sync.Mutex
	storage clients.StorageAdapter
	now     func() time.Time
}

// NewCoordinator creates a coordinator using the wall clock
func NewCoordinator(storage clients.StorageAdapter) *Coordinator {
	return NewCoordinatorWithClock(storage, time.Now)
}

// NewCoordinatorWithClock creates a coordinator with a custom clock
func NewCoordinatorWithClock(storage clients.StorageAdapter, now func() time.Time) *Coordinator {
	return &Coordinator{
		storage: storage,
		now:     now,
	}
}

// Do runs fn while holding the registry lock. The clock is read under the lock
// so timestamps follow lock acquisition order. A panic in fn is returned as ErrInternal.
func (c *Coordinator) Do(fn func(store clients.StorageAdapter, now time.Time) error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domains.ErrInternal, r)
		}
	}()

	return fn(c.storage, c.now())
}
