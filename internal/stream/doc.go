// Package stream implements the single-producer, multi-consumer lockstep
// protocol over a channel's shared slot, and the Sink and Source handles
// pipeline nodes hold.
//
// Each publish cycle walks Empty -> Writing -> Ready -> Draining. The
// producer may not begin writing until every reader registered at the
// previous publish has consumed it (or detached), so the producer runs at
// most one sample ahead of the slowest reader. Readers registered
// mid-stream become eligible at the next publish, never retroactively.
// Two futex words drive the hand-off: readySeq wakes readers once per
// publish, drainSeq wakes the producer when the last pending read lands.
//
// All blocking calls take a context; cancellation wakes a parked handle
// immediately. A reader that exits without Detach (killed process) leaves
// the cycle undrained and stalls the producer permanently - the protocol
// has no eviction, so every exit path must detach.
package stream
