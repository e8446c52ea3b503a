package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shmpipe/internal/shm"
	"shmpipe/internal/token"
)

// attachPollInterval paces the bounded polling fallback used while a
// channel (or its producer) does not exist yet. Steady-state waits never
// poll; only creation waits do.
const attachPollInterval = 20 * time.Millisecond

// Token is one pulled unit. Data aliases the source's internal buffer and
// is valid only until the next Pull.
type Token struct {
	Sample uint64
	EOS    bool
	Stamp  time.Time
	Data   []byte
}

// Source is the consumer-side handle of a channel. A Source is not safe
// for concurrent use.
type Source struct {
	name  string
	seg   *shm.Segment
	slot  *token.Slot
	shape token.Shape

	lastSeq  uint32
	buf      []byte
	closed   bool
	detached bool
}

// Attach connects to the named channel, waiting for it to be created and
// for a producer to bind. Bound or unbounded waiting is the caller's
// choice via ctx. The source becomes eligible starting at the next
// publish; it never observes tokens published before attachment.
func Attach(ctx context.Context, name string) (*Source, error) {
	for {
		seg, err := shm.Open(name, shm.AttachOnly, 0)
		if err == nil {
			return register(ctx, name, seg)
		}
		if !errors.Is(err, shm.ErrChannelNotFound) {
			return nil, err
		}
		if err := sleepCtx(ctx, attachPollInterval); err != nil {
			return nil, fmt.Errorf("wait for channel %q: %w", name, err)
		}
	}
}

func register(ctx context.Context, name string, seg *shm.Segment) (*Source, error) {
	slot := token.NewSlot(seg)

	// The segment exists a moment before its creator records the shape
	// and takes the producer role; wait that window out.
	for slot.SinkBound().Load() == 0 {
		if slot.EOS().Load() != 0 {
			_ = seg.Close()
			return nil, fmt.Errorf("channel %q: %w", name, ErrAlreadyClosed)
		}
		if err := sleepCtx(ctx, attachPollInterval); err != nil {
			_ = seg.Close()
			return nil, fmt.Errorf("wait for sink on channel %q: %w", name, err)
		}
	}

	s := &Source{name: name, seg: seg, slot: slot, shape: slot.Shape()}
	s.buf = make([]byte, s.shape.PayloadBytes())

	reg := slot.Registry()
	reg.Lock()
	slot.ReaderCount().Add(1)
	s.lastSeq = slot.ReadySeq().Load()
	reg.Unlock()
	return s, nil
}

// Name returns the channel name.
func (s *Source) Name() string { return s.name }

// Shape returns the channel's payload shape.
func (s *Source) Shape() token.Shape { return s.shape }

// Pull blocks until the producer publishes the next token, copies it out,
// and marks this reader's consumption; the last consumer of a cycle
// releases the producer. Once a token carrying the end-of-stream marker
// is returned the source is terminally closed and further pulls fail with
// ErrAlreadyClosed.
func (s *Source) Pull(ctx context.Context) (Token, error) {
	if s.closed {
		return Token{}, fmt.Errorf("channel %q: %w", s.name, ErrAlreadyClosed)
	}
	slot := s.slot

	for {
		seq := slot.ReadySeq().Load()
		if seq != s.lastSeq {
			s.lastSeq = seq
			break
		}
		if err := shm.WaitWord(ctx, slot.ReadySeq(), seq); err != nil {
			return Token{}, fmt.Errorf("channel %q: wait for token: %w", s.name, err)
		}
	}

	// Ready: the payload is immutable until every pending read lands, so
	// read everything before counting this one consumed.
	n := int(slot.PayloadLen().Load())
	copy(s.buf[:n], slot.Payload()[:n])
	tok := Token{
		Sample: slot.Sample().Load(),
		EOS:    slot.EOS().Load() != 0,
		Stamp:  time.Unix(0, int64(slot.Stamp().Load())),
		Data:   s.buf[:n],
	}

	if slot.PendingReads().Add(^uint32(0)) == 0 {
		slot.DrainSeq().Add(1)
		shm.WakeAll(slot.DrainSeq())
	}

	if tok.EOS {
		s.closed = true
	}
	return tok, nil
}

// Detach deregisters the reader and drops the segment reference. If the
// current cycle is still unconsumed by this reader it counts as consumed,
// so a reader leaving mid-cycle never stalls the producer. Safe to call
// at any time, including after end-of-stream; idempotent.
func (s *Source) Detach() error {
	if s.detached {
		return nil
	}
	s.detached = true

	slot := s.slot
	reg := slot.Registry()
	reg.Lock()
	slot.ReaderCount().Add(^uint32(0))
	if s.lastSeq != slot.ReadySeq().Load() {
		s.lastSeq = slot.ReadySeq().Load()
		if slot.PendingReads().Add(^uint32(0)) == 0 {
			slot.DrainSeq().Add(1)
			shm.WakeAll(slot.DrainSeq())
		}
	}
	reg.Unlock()
	return s.seg.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
