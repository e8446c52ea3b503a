package token

import (
	"sync/atomic"

	"shmpipe/internal/shm"
)

// Slot header field offsets, relative to the caller region of the shared
// segment. Synchronization words first (4-byte aligned), 64-bit counters
// on 8-byte boundaries, shape descriptor last. The payload buffer starts
// at slotHeaderBytes.
const (
	offRegistry     = 0  // futex mutex guarding registration and cycle hand-off
	offSinkBound    = 4  // 1 while a producer is bound
	offReaderCount  = 8  // registered readers, guarded by the registry mutex
	offPendingReads = 12 // readers yet to consume the current Ready cycle
	offReadySeq     = 16 // futex word, bumped once per publish
	offDrainSeq     = 20 // futex word, bumped when a cycle fully drains
	offEOS          = 24 // permanent once set
	offPayloadLen   = 28 // bytes written in the current cycle
	offSample       = 32 // sample number of the current Ready token
	offPublished    = 40 // count of tokens published so far
	offStamp        = 48 // capture timestamp, unix nanoseconds
	offKind         = 56
	offWidth        = 60
	offHeight       = 64
	offChannels     = 68
	offElemSize     = 72
	offPayloadCap   = 76

	slotHeaderBytes = 112
)

// SlotBytes returns the caller-region size a channel of the given shape
// needs.
func SlotBytes(s Shape) int { return slotHeaderBytes + s.PayloadBytes() }

// Slot is a typed view over a channel segment's caller region.
type Slot struct {
	seg *shm.Segment
	reg *shm.Mutex
}

// NewSlot wraps an attached segment.
func NewSlot(seg *shm.Segment) *Slot {
	return &Slot{seg: seg, reg: shm.NewMutex(seg.Word32(offRegistry))}
}

// Registry returns the cross-process mutex guarding reader registration
// and publish cycle hand-off.
func (s *Slot) Registry() *shm.Mutex { return s.reg }

// SinkBound returns the producer-bound flag word.
func (s *Slot) SinkBound() *atomic.Uint32 { return s.seg.Word32(offSinkBound) }

// ReaderCount returns the registered reader counter word.
func (s *Slot) ReaderCount() *atomic.Uint32 { return s.seg.Word32(offReaderCount) }

// PendingReads returns the unconsumed-reader counter for the current cycle.
func (s *Slot) PendingReads() *atomic.Uint32 { return s.seg.Word32(offPendingReads) }

// ReadySeq returns the publish sequence futex word.
func (s *Slot) ReadySeq() *atomic.Uint32 { return s.seg.Word32(offReadySeq) }

// DrainSeq returns the drain sequence futex word.
func (s *Slot) DrainSeq() *atomic.Uint32 { return s.seg.Word32(offDrainSeq) }

// EOS returns the end-of-stream flag word.
func (s *Slot) EOS() *atomic.Uint32 { return s.seg.Word32(offEOS) }

// PayloadLen returns the current cycle's payload length word.
func (s *Slot) PayloadLen() *atomic.Uint32 { return s.seg.Word32(offPayloadLen) }

// Sample returns the current token's sample number word.
func (s *Slot) Sample() *atomic.Uint64 { return s.seg.Word64(offSample) }

// Published returns the published token counter word.
func (s *Slot) Published() *atomic.Uint64 { return s.seg.Word64(offPublished) }

// Stamp returns the capture timestamp word (unix nanoseconds).
func (s *Slot) Stamp() *atomic.Uint64 { return s.seg.Word64(offStamp) }

// WriteShape records the channel's payload descriptor. Called exactly
// once, by the creating producer, before any reader can observe a token.
func (s *Slot) WriteShape(sh Shape) {
	s.seg.Word32(offWidth).Store(sh.Width)
	s.seg.Word32(offHeight).Store(sh.Height)
	s.seg.Word32(offChannels).Store(sh.Channels)
	s.seg.Word32(offElemSize).Store(sh.ElemSize)
	s.seg.Word32(offPayloadCap).Store(uint32(sh.PayloadBytes()))
	s.seg.Word32(offKind).Store(uint32(sh.Kind))
}

// Shape reads the channel's payload descriptor.
func (s *Slot) Shape() Shape {
	return Shape{
		Kind:     Kind(s.seg.Word32(offKind).Load()),
		Width:    s.seg.Word32(offWidth).Load(),
		Height:   s.seg.Word32(offHeight).Load(),
		Channels: s.seg.Word32(offChannels).Load(),
		ElemSize: s.seg.Word32(offElemSize).Load(),
	}
}

// Payload returns the full payload buffer.
func (s *Slot) Payload() []byte {
	cap := int(s.seg.Word32(offPayloadCap).Load())
	return s.seg.Bytes(slotHeaderBytes, cap)
}

// State is a read-only snapshot of a channel's slot, taken without
// attaching, for diagnostics and the channels listing.
type State struct {
	Shape     Shape
	Sample    uint64
	Published uint64
	EOS       bool
	SinkBound bool
	Readers   uint32
	Pending   uint32
	Attached  uint32
}

// ReadState snapshots a channel through an inspection view.
func ReadState(v *shm.View) State {
	return State{
		Shape: Shape{
			Kind:     Kind(v.Word32(offKind)),
			Width:    v.Word32(offWidth),
			Height:   v.Word32(offHeight),
			Channels: v.Word32(offChannels),
			ElemSize: v.Word32(offElemSize),
		},
		Sample:    v.Word64(offSample),
		Published: v.Word64(offPublished),
		EOS:       v.Word32(offEOS) != 0,
		SinkBound: v.Word32(offSinkBound) != 0,
		Readers:   v.Word32(offReaderCount),
		Pending:   v.Word32(offPendingReads),
		Attached:  v.AttachCount(),
	}
}
