package bot

import "sync"

// Cursor holds the newest mention id seen. Empty means no lower bound.
type Cursor struct {
	mu sync.RWMutex
	id string
}

func (c *Cursor) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Advance moves the cursor to id if id is newer than the current value.
func (c *Cursor) Advance(id string) bool {
	if id == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != "" && !newerID(id, c.id) {
		return false
	}
	c.id = id
	return true
}

// newerID compares snowflake ids: a longer decimal string is a larger number.
func newerID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
