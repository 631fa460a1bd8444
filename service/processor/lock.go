package processor

import "sync"

// locks serialises operations on the same process instance.
type locks struct {
	mux   sync.Mutex
	items map[string]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newLocks() *locks {
	return &locks{items: map[string]*lockEntry{}}
}

// Lock acquires the lock for key and returns its release function.
func (l *locks) Lock(key string) func() {
	l.mux.Lock()
	entry, ok := l.items[key]
	if !ok {
		entry = &lockEntry{}
		l.items[key] = entry
	}
	entry.refs++
	l.mux.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mux.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.items, key)
		}
		l.mux.Unlock()
	}
}
