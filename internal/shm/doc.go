// Package shm manages named shared memory segments backing pipeline
// channels.
//
// A segment is a file on the tmpfs at /dev/shm mapped into every attached
// process. The package owns segment naming, creation, attachment,
// reference counting, and destruction; the first sixteen bytes of every
// mapping form the segment prefix (magic, layout version, attach count)
// and belong to this package, while everything past HeaderBytes belongs
// to the caller. Creation and teardown races between unrelated processes
// are serialized with a per-channel advisory file lock.
//
// The package also provides the futex wait/wake primitives and the
// cross-process mutex that the streaming protocol builds on. It is
// Linux-only by design: the transport assumes one machine, one kernel.
package shm
