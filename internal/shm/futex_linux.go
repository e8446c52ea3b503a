//go:build linux

package shm

import (
	"context"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation codes from the Linux ABI (<linux/futex.h>); x/sys/unix
// does not export them. The non-private variants are required because the
// futex word lives in memory shared across processes.
const (
	futexOpWait = 0 // FUTEX_WAIT
	futexOpWake = 1 // FUTEX_WAKE
)

// futexWait parks the calling thread until the word at addr no longer
// holds expected or a wake arrives. Spurious returns are allowed; callers
// must re-check their condition in a loop.
func futexWait(addr *atomic.Uint32, expected uint32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWait),
		uintptr(expected),
		0, 0, 0,
	)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return nil
	default:
		return errno
	}
}

// futexWake wakes up to count threads parked on the word at addr. The
// word is shared across processes, so wakes reach every attached handle.
func futexWake(addr *atomic.Uint32, count int) {
	_, _, _ = unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWake),
		uintptr(count),
		0, 0, 0,
	)
}

// WakeAll wakes every waiter on addr, in every attached process.
func WakeAll(addr *atomic.Uint32) {
	futexWake(addr, int(^uint32(0)>>1))
}

// WaitWord blocks while the word at addr holds expected, returning early
// when ctx is cancelled. Cancellation issues a broadcast wake so the
// caller observes it immediately instead of on the next state change;
// foreign waiters woken by the broadcast re-check their own condition and
// go back to sleep.
func WaitWord(ctx context.Context, addr *atomic.Uint32, expected uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if addr.Load() != expected {
		return nil
	}
	stop := context.AfterFunc(ctx, func() { WakeAll(addr) })
	defer stop()

	for addr.Load() == expected {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := futexWait(addr, expected); err != nil {
			return err
		}
	}
	return nil
}
