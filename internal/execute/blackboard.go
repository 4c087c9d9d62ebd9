package execute

import (
	"sync"

	"github.com/joeycumines/goap/internal/goap"
)

// Blackboard is a thread-safe key-value store shared by the steps of a run.
// Atoms of the planner are kept under their own names as bool values;
// handlers may store anything else alongside them.
//
// The zero value is ready to use.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]any)
	}
}

// Get returns the value stored under key, or nil.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

// Bool returns the value stored under key if it is a bool.
func (b *Blackboard) Bool(key string) (value, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok = b.data[key].(bool)
	return value, ok
}

// Set stores value under key.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	b.data[key] = value
}

// Has reports whether key is present.
func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok
}

// Delete removes key.
func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Len returns the number of keys.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Snapshot returns a shallow copy of the contents.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make(map[string]any, len(b.data))
	for k, v := range b.data {
		result[k] = v
	}
	return result
}

// Load writes every atom ws cares about, and removes the atoms it does not.
// Keys that are not atoms of ap are left alone.
func (b *Blackboard) Load(ap *goap.ActionPlanner, ws goap.WorldState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	for i, name := range ap.AtomNames() {
		if ws.Cares(i) {
			b.data[name] = ws.Get(i)
		} else {
			delete(b.data, name)
		}
	}
}

// State reads the atoms of ap back into a world state. Atoms that are
// missing, or hold something other than a bool, are don't-care.
func (b *Blackboard) State(ap *goap.ActionPlanner) goap.WorldState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ws := goap.NewWorldState()
	for i, name := range ap.AtomNames() {
		if v, ok := b.data[name].(bool); ok {
			ws.Set(i, v)
		}
	}
	return ws
}
