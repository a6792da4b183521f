package model_caller

import (
	"context"
)

// ConcurrencyLimiter in-process semaphore. The key is ignored; one limiter
// bounds every caller sharing it.
type ConcurrencyLimiter struct {
	maxConcurrent int
	semaphore     chan struct{}
}

// NewConcurrencyLimiter creates a limiter with maxConcurrent slots
func NewConcurrencyLimiter(maxConcurrent int) *ConcurrencyLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &ConcurrencyLimiter{
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
	}
}

// Acquire blocks until a slot is free or ctx is done
func (cl *ConcurrencyLimiter) Acquire(ctx context.Context, key string) error {
	select {
	case cl.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot
func (cl *ConcurrencyLimiter) Release(ctx context.Context, key string) {
	select {
	case <-cl.semaphore:
	default:
	}
}

// InUse returns the number of held slots
func (cl *ConcurrencyLimiter) InUse() int {
	return len(cl.semaphore)
}

// GetMaxConcurrent returns the slot count
func (cl *ConcurrencyLimiter) GetMaxConcurrent() int {
	return cl.maxConcurrent
}
