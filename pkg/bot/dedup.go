package bot

import "sync"

// DedupStore remembers processed mention ids. With a positive capacity the
// oldest ids are evicted first; capacity 0 keeps everything.
type DedupStore struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	order    []string
	capacity int
}

func NewDedupStore(capacity int) *DedupStore {
	if capacity < 0 {
		capacity = 0
	}
	return &DedupStore{
		seen:     make(map[string]struct{}),
		capacity: capacity,
	}
}

// MarkIfNew records id and reports whether it was unseen.
func (s *DedupStore) MarkIfNew(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)

	if s.capacity > 0 && len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	return true
}

func (s *DedupStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func (s *DedupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
