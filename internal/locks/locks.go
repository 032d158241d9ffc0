// Package locks provides process-local per-project mutual exclusion so a
// destructive subtree replacement cannot interleave with an additive
// merge on the same project. Locks are keyed by project id and never
// evicted; the count is bounded by the number of projects this process
// has touched.
package locks

import "sync"

// ProjectLocks is a registry of per-project mutexes.
type ProjectLocks struct {
	mu sync.Map // uint64 -> *sync.Mutex
}

// NewProjectLocks creates an empty registry.
func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{}
}

// Lock acquires the mutex for a project id, creating it on first use,
// and returns the unlock function.
func (l *ProjectLocks) Lock(projectID uint64) func() {
	actual, _ := l.mu.LoadOrStore(projectID, &sync.Mutex{})
	m := actual.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
