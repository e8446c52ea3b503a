package token

import "fmt"

// Kind discriminates the payload a channel carries. A channel carries
// exactly one kind for its whole life, so tokens need no runtime tag.
type Kind uint32

const (
	// KindUnset marks a slot whose producer has not bound yet.
	KindUnset Kind = iota
	// KindFrame carries raw video frames.
	KindFrame
	// KindPosition carries 2D position records.
	KindPosition
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindPosition:
		return "position"
	default:
		return "unset"
	}
}

// Shape describes a channel's payload geometry. For frames all fields are
// meaningful; for positions only Kind is, the record size being fixed.
type Shape struct {
	Kind     Kind
	Width    uint32
	Height   uint32
	Channels uint32
	ElemSize uint32
}

// FrameShape builds the shape of a channel carrying w x h frames with c
// interleaved 8-bit channels.
func FrameShape(w, h, c int) Shape {
	return Shape{
		Kind:     KindFrame,
		Width:    uint32(w),
		Height:   uint32(h),
		Channels: uint32(c),
		ElemSize: 1,
	}
}

// PositionShape builds the shape of a channel carrying position records.
func PositionShape() Shape {
	return Shape{Kind: KindPosition}
}

// Validate rejects shapes that cannot back a channel.
func (s Shape) Validate() error {
	switch s.Kind {
	case KindFrame:
		if s.Width == 0 || s.Height == 0 || s.Channels == 0 || s.ElemSize == 0 {
			return fmt.Errorf("frame shape %dx%dx%d elem %d: all dimensions must be positive",
				s.Width, s.Height, s.Channels, s.ElemSize)
		}
		if s.PayloadBytes() > maxPayloadBytes {
			return fmt.Errorf("frame shape %dx%dx%d exceeds %d byte payload limit",
				s.Width, s.Height, s.Channels, maxPayloadBytes)
		}
		return nil
	case KindPosition:
		return nil
	default:
		return fmt.Errorf("unknown payload kind %d", uint32(s.Kind))
	}
}

// PayloadBytes returns the slot payload buffer size the shape requires.
func (s Shape) PayloadBytes() int {
	switch s.Kind {
	case KindFrame:
		return int(s.Width) * int(s.Height) * int(s.Channels) * int(s.ElemSize)
	case KindPosition:
		return positionRecordBytes
	default:
		return 0
	}
}

// Equal reports whether two shapes describe the same geometry.
func (s Shape) Equal(o Shape) bool { return s == o }

// String renders the shape for diagnostics.
func (s Shape) String() string {
	if s.Kind == KindFrame {
		return fmt.Sprintf("frame %dx%dx%d", s.Width, s.Height, s.Channels)
	}
	return s.Kind.String()
}

// maxPayloadBytes caps a single slot payload. Generous for video: a
// 4096x2160 4-channel frame is ~35 MB.
const maxPayloadBytes = 64 << 20
