package service

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Interval for sweeping idle scope mutexes
	scopeCleanupInterval = 10 * time.Minute

	// How long a scope mutex must be idle before it is dropped
	scopeIdleThreshold = 10 * time.Minute
)

// ScopeLocker serialises writers of one (doctor, date) scope inside this process.
//
// Lock Ordering (to prevent deadlocks):
// 1. Keys are deduplicated and acquired in sorted order
// 2. Then the database transaction and advisory lock are taken
type ScopeLocker struct {
	log *logrus.Logger

	mu     sync.Mutex
	scopes map[string]*scopeMutex

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// scopeMutex is only removed from the map while nobody holds or waits for it.
type scopeMutex struct {
	mu       sync.Mutex
	refs     int
	lastUsed time.Time
}

// NewScopeLocker starts the idle sweeper. Call Stop() during graceful shutdown.
func NewScopeLocker(log *logrus.Logger) *ScopeLocker {
	l := &ScopeLocker{
		log:      log,
		scopes:   make(map[string]*scopeMutex),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Stop is safe to call multiple times.
func (l *ScopeLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("ScopeLocker stopped")
	}
}

// Lock blocks until every key is held and returns the release func.
func (l *ScopeLocker) Lock(keys ...string) func() {
	ordered := uniqueSorted(keys)
	held := make([]*scopeMutex, 0, len(ordered))

	for _, key := range ordered {
		sm := l.acquire(key)
		sm.mu.Lock()
		held = append(held, sm)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(held[i])
			}
		})
	}
}

// Len reports how many scopes currently have a mutex allocated.
func (l *ScopeLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.scopes)
}

func (l *ScopeLocker) acquire(key string) *scopeMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	sm, ok := l.scopes[key]
	if !ok {
		sm = &scopeMutex{}
		l.scopes[key] = sm
	}
	sm.refs++
	return sm
}

func (l *ScopeLocker) release(sm *scopeMutex) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sm.refs--
	sm.lastUsed = time.Now()
}

func (l *ScopeLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(scopeCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Scope mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupIdle(time.Now().Add(-scopeIdleThreshold))
		}
	}
}

func (l *ScopeLocker) cleanupIdle(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var cleaned int
	for key, sm := range l.scopes {
		if sm.refs == 0 && sm.lastUsed.Before(cutoff) {
			delete(l.scopes, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d idle scope mutexes", cleaned)
	}
	return cleaned
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
