package service

import "sync"

// roomLocks serializes admission per room. Bookings for different rooms
// proceed independently.
type roomLocks struct {
	mu sync.Map
}

func (l *roomLocks) lock(roomID int64) func() {
	val, _ := l.mu.LoadOrStore(roomID, &sync.Mutex{})
	m := val.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
