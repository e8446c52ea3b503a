package stream

import (
	"context"
	"fmt"
	"time"

	"shmpipe/internal/shm"
	"shmpipe/internal/token"
)

// Sink is the producer-side handle of a channel. Exactly one sink may be
// bound to a channel at a time. A Sink is not safe for concurrent use.
type Sink struct {
	name  string
	seg   *shm.Segment
	slot  *token.Slot
	shape token.Shape

	closed   bool
	detached bool
}

// Bind creates the named channel (or attaches to an existing compatible
// segment) and takes the producer role. The payload shape is fixed here
// for the channel's whole life; it must be durably recorded before any
// reader can observe a token, so the creating bind writes the descriptor
// while no publish has happened yet.
func Bind(name string, shape token.Shape) (*Sink, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	seg, err := shm.Open(name, shm.CreateOrAttach, token.SlotBytes(shape))
	if err != nil {
		return nil, err
	}
	slot := token.NewSlot(seg)

	reg := slot.Registry()
	reg.Lock()
	switch {
	case slot.SinkBound().Load() != 0:
		reg.Unlock()
		_ = seg.Close()
		return nil, fmt.Errorf("channel %q: %w", name, ErrSinkAlreadyBound)
	case slot.EOS().Load() != 0:
		// EOS is permanent for the channel; a new producer needs a fresh
		// channel (last detach destroys this one).
		reg.Unlock()
		_ = seg.Close()
		return nil, fmt.Errorf("channel %q: %w", name, ErrAlreadyClosed)
	case seg.Created():
		slot.WriteShape(shape)
	case !slot.Shape().Equal(shape):
		reg.Unlock()
		_ = seg.Close()
		return nil, fmt.Errorf("channel %q carries %s, sink offers %s: %w",
			name, slot.Shape(), shape, ErrPayloadShapeMismatch)
	}
	slot.SinkBound().Store(1)
	reg.Unlock()

	return &Sink{name: name, seg: seg, slot: slot, shape: shape}, nil
}

// Name returns the channel name.
func (k *Sink) Name() string { return k.name }

// Shape returns the payload shape fixed at bind time.
func (k *Sink) Shape() token.Shape { return k.shape }

// Push publishes one token. payload must match the bound shape exactly.
// Push blocks until the previous cycle has drained (every registered
// reader consumed it or detached), then copies the payload in, advances
// the sample number, and wakes all readers. It does not wait for the new
// cycle to be consumed.
func (k *Sink) Push(ctx context.Context, payload []byte, stamp time.Time) error {
	if len(payload) != k.shape.PayloadBytes() {
		return fmt.Errorf("channel %q: payload is %d bytes, shape %s needs %d: %w",
			k.name, len(payload), k.shape, k.shape.PayloadBytes(), ErrPayloadShapeMismatch)
	}
	return k.push(ctx, payload, stamp, false)
}

func (k *Sink) push(ctx context.Context, payload []byte, stamp time.Time, final bool) error {
	if k.closed {
		return fmt.Errorf("channel %q: %w", k.name, ErrSinkClosed)
	}
	slot := k.slot

	// Empty gate: wait for the previous cycle to drain. Load drainSeq
	// before re-checking the pending count so a drain completing in
	// between turns the wait into an immediate return.
	for {
		drained := slot.DrainSeq().Load()
		if slot.PendingReads().Load() == 0 {
			break
		}
		if err := shm.WaitWord(ctx, slot.DrainSeq(), drained); err != nil {
			return fmt.Errorf("channel %q: wait for drain: %w", k.name, err)
		}
	}

	// Writing: the slot is exclusively ours until readySeq is bumped.
	n := copy(slot.Payload(), payload)
	slot.PayloadLen().Store(uint32(n))
	slot.Stamp().Store(uint64(stamp.UnixNano()))
	sample := slot.Published().Load()
	slot.Sample().Store(sample)
	if final {
		slot.EOS().Store(1)
	}

	// Ready: registration is frozen while the registry lock is held, so
	// the pending count matches exactly the readers eligible this cycle.
	reg := slot.Registry()
	reg.Lock()
	slot.PendingReads().Store(slot.ReaderCount().Load())
	slot.Published().Store(sample + 1)
	slot.ReadySeq().Add(1)
	reg.Unlock()
	shm.WakeAll(slot.ReadySeq())

	if final {
		k.closed = true
	}
	return nil
}

// Close ends the producer role. With final set it first publishes one
// last token carrying the end-of-stream marker and an empty payload;
// every attached reader observes it and no token can ever follow on this
// channel. Without final the channel is left open for a future producer.
// Close then detaches from the segment. It is idempotent.
func (k *Sink) Close(ctx context.Context, final bool) error {
	if k.detached {
		return nil
	}
	if final && !k.closed {
		if err := k.push(ctx, nil, time.Now(), true); err != nil {
			return err
		}
	}
	k.closed = true
	k.detached = true

	reg := k.slot.Registry()
	reg.Lock()
	k.slot.SinkBound().Store(0)
	reg.Unlock()
	return k.seg.Close()
}
