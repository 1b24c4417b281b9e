package handles

import (
	"sync"

	"github.com/mirrorbind/mirror/errors"
)

// Handle is an opaque reference to an instance in a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Dropper is optionally implemented by instances that need cleanup when
// their handle is removed or the table closes.
type Dropper interface {
	Drop()
}

type entry struct {
	value any
	class string
	valid bool
}

// Table is an in-memory handle table tagging each instance with its class
// name. Safe for concurrent use.
type Table struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores an instance under its class name and returns its handle.
func (t *Table) Insert(class string, value any) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, errors.InvalidInput(errors.PhaseInvoke, "handle table closed")
	}

	e := entry{class: class, value: value, valid: true}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h, nil
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries)), nil
}

// Get retrieves an instance by handle.
func (t *Table) Get(h Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetClass retrieves an instance only if it carries the expected class tag.
func (t *Table) GetClass(h Handle, class string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok || e.class != class {
		return nil, false
	}
	return e.value, true
}

// Class returns the class tag of a handle.
func (t *Table) Class(h Handle) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		return "", false
	}
	return e.class, true
}

// lookup resolves a handle to its live entry. Caller holds t.mu.
func (t *Table) lookup(h Handle) (*entry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[h-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// Remove drops an instance, running its Dropper if it has one, and returns
// the instance when the handle was live.
func (t *Table) Remove(h Handle) (any, bool) {
	t.mu.Lock()

	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.class = ""
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	return value, true
}

// Len returns the number of live instances.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].valid {
			n++
		}
	}
	return n
}

// Each visits every live instance until fn returns false.
func (t *Table) Each(fn func(Handle, string, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.entries {
		e := &t.entries[i]
		if e.valid && !fn(Handle(i+1), e.class, e.value) {
			break
		}
	}
}

// Clear drops every live instance, running Droppers.
func (t *Table) Clear() {
	var live []Handle
	t.Each(func(h Handle, _ string, _ any) bool {
		live = append(live, h)
		return true
	})
	for _, h := range live {
		t.Remove(h)
	}
}

// Close drops every live instance and rejects further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var droppers []Dropper
	for i := range t.entries {
		if t.entries[i].valid {
			if d, ok := t.entries[i].value.(Dropper); ok {
				droppers = append(droppers, d)
			}
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, d := range droppers {
		d.Drop()
	}
	return nil
}
