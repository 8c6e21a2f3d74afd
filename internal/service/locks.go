package service

import "sync"

// RoomLocks 每個房間代碼一把讀寫鎖，沒有人持有時即釋放
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	sync.RWMutex
	refs int
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[string]*roomLock)}
}

func (l *RoomLocks) acquire(code string) *roomLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[code]
	if !ok {
		lock = &roomLock{}
		l.locks[code] = lock
	}
	lock.refs++
	return lock
}

func (l *RoomLocks) release(code string, lock *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, code)
	}
}

// Lock 回傳的函式用來解鎖
func (l *RoomLocks) Lock(code string) func() {
	lock := l.acquire(code)
	lock.Lock()
	return func() {
		lock.Unlock()
		l.release(code, lock)
	}
}

func (l *RoomLocks) RLock(code string) func() {
	lock := l.acquire(code)
	lock.RLock()
	return func() {
		lock.RUnlock()
		l.release(code, lock)
	}
}

func (l *RoomLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
