package service

import (
	"sync"
	"time"
)

// idSequence issues entry ids derived from record timestamps. Ids from
// one sequence are strictly increasing even when timestamps repeat or
// arrive out of order.
type idSequence struct {
	mu   sync.Mutex
	last int64
}

func (s *idSequence) Next(t time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := t.UnixNano()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
