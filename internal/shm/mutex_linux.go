//go:build linux

package shm

import "sync/atomic"

// Mutex states. The classic three-state futex mutex: transitions to
// contended whenever a waiter exists so the unlocker knows to issue a
// wake.
const (
	mutexFree      = 0
	mutexLocked    = 1
	mutexContended = 2
)

// Mutex is a cross-process mutual exclusion lock over a single word of
// shared memory. Zero value of the underlying word means unlocked, so a
// freshly created segment needs no initialization.
//
// It guards short critical sections (handle registration, cycle
// hand-off); holders must never block while locked.
type Mutex struct {
	word *atomic.Uint32
}

// NewMutex wraps the given shared word as a mutex.
func NewMutex(word *atomic.Uint32) *Mutex {
	return &Mutex{word: word}
}

// Lock acquires the mutex, parking on the futex word under contention.
func (m *Mutex) Lock() {
	if m.word.CompareAndSwap(mutexFree, mutexLocked) {
		return
	}
	for {
		if m.word.Load() == mutexContended || m.word.CompareAndSwap(mutexLocked, mutexContended) {
			_ = futexWait(m.word, mutexContended)
		}
		if m.word.CompareAndSwap(mutexFree, mutexContended) {
			return
		}
	}
}

// Unlock releases the mutex and wakes one waiter if any thread parked.
func (m *Mutex) Unlock() {
	if m.word.Swap(mutexFree) == mutexContended {
		futexWake(m.word, 1)
	}
}
