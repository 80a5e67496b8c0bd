package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler produces the reply text for a command sent by username.
type Handler interface {
	Handle(ctx context.Context, username string, cmd Command) (string, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, username string, cmd Command) (string, error)

func (f HandlerFunc) Handle(ctx context.Context, username string, cmd Command) (string, error) {
	return f(ctx, username, cmd)
}

// Describer is implemented by handlers that carry a help line.
type Describer interface {
	Description() string
}

// HandlerEntry is a registered handler and its advisory fee.
type HandlerEntry struct {
	Name        string
	Handler     Handler
	Fee         float64
	Description string
}

// Paid reports whether the entry carries a non-zero fee.
func (e HandlerEntry) Paid() bool {
	return e.Fee > 0
}

// Registry maps command names to handlers. Re-registering a name replaces the
// previous entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]HandlerEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]HandlerEntry),
	}
}

// Register stores h under name. Names are matched case-insensitively.
func (r *Registry) Register(name string, h Handler, fee float64) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("command name is required")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("command name %q must be a single word", name)
	}
	if h == nil {
		return fmt.Errorf("handler for %q is nil", name)
	}
	if fee < 0 {
		return fmt.Errorf("fee for %q cannot be negative: %v", name, fee)
	}

	entry := HandlerEntry{Name: name, Handler: h, Fee: fee}
	if d, ok := h.(Describer); ok {
		entry.Description = d.Description()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry
	return nil
}

// Lookup returns the entry registered for name.
func (r *Registry) Lookup(name string) (HandlerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[strings.ToLower(name)]
	return entry, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns all entries sorted by name.
func (r *Registry) Entries() []HandlerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]HandlerEntry, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
