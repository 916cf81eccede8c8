package utils

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool runs jobs on at most maxWorkers goroutines and spaces job starts
// at least rateLimitMs apart.
type WorkerPool struct {
	slots    chan struct{}
	interval time.Duration
	wg       sync.WaitGroup

	mu        sync.Mutex
	nextStart time.Time

	skipped atomic.Int64
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate limit.
// A non-positive maxWorkers runs one job at a time.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		slots:    make(chan struct{}, maxWorkers),
		interval: time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Submit blocks until a worker slot is free, then runs job on it. If ctx is
// done first the job is skipped and ctx.Err() is returned.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context)) error {
	select {
	case wp.slots <- struct{}{}:
	case <-ctx.Done():
		wp.skipped.Add(1)
		return ctx.Err()
	}

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()

		if err := wp.throttle(ctx); err != nil {
			wp.skipped.Add(1)
			return
		}
		job(ctx)
	}()
	return nil
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Skipped counts jobs dropped because their context ended before they started.
func (wp *WorkerPool) Skipped() int {
	return int(wp.skipped.Load())
}

// throttle reserves the next start time and waits for it.
func (wp *WorkerPool) throttle(ctx context.Context) error {
	wp.mu.Lock()
	start := time.Now()
	if wp.nextStart.After(start) {
		start = wp.nextStart
	}
	wp.nextStart = start.Add(wp.interval)
	wp.mu.Unlock()

	if wait := time.Until(start); wait > 0 {
		return sleepCtx(ctx, wait)
	}
	return ctx.Err()
}

// KeySet is a thread-safe set of string keys, used to bind each mount exactly once.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key is present.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Keys returns the tracked keys in sorted order.
func (s *KeySet) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.seen))
	for k := range s.seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
