package token

import (
	"fmt"
	"time"
)

// Frame is one video frame. Pix is row-major interleaved, one byte per
// channel element, len(Pix) == Width*Height*Channels.
type Frame struct {
	Width      int
	Height     int
	Channels   int
	Pix        []byte
	CapturedAt time.Time
}

// NewFrame allocates a zeroed frame of the given geometry.
func NewFrame(w, h, c int) *Frame {
	return &Frame{Width: w, Height: h, Channels: c, Pix: make([]byte, w*h*c)}
}

// Shape returns the channel shape matching the frame's geometry.
func (f *Frame) Shape() Shape { return FrameShape(f.Width, f.Height, f.Channels) }

// At returns the element of channel c at pixel (x, y).
func (f *Frame) At(x, y, c int) byte {
	return f.Pix[(y*f.Width+x)*f.Channels+c]
}

// Set writes the element of channel c at pixel (x, y).
func (f *Frame) Set(x, y, c int, v byte) {
	f.Pix[(y*f.Width+x)*f.Channels+c] = v
}

// EncodeFrame copies the frame's pixels into a slot payload buffer and
// returns the byte count actually used.
func EncodeFrame(dst []byte, f *Frame, shape Shape) (int, error) {
	if !f.Shape().Equal(shape) {
		return 0, fmt.Errorf("frame is %s, channel carries %s", f.Shape(), shape)
	}
	if len(f.Pix) != shape.PayloadBytes() {
		return 0, fmt.Errorf("frame buffer holds %d bytes, shape %s needs %d",
			len(f.Pix), shape, shape.PayloadBytes())
	}
	return copy(dst, f.Pix), nil
}

// DecodeFrame fills f from a slot payload, reusing f.Pix when it already
// has the right size.
func DecodeFrame(f *Frame, src []byte, shape Shape, stamp time.Time) error {
	if shape.Kind != KindFrame {
		return fmt.Errorf("channel carries %s, not frames", shape)
	}
	want := shape.PayloadBytes()
	if len(src) != want {
		return fmt.Errorf("payload holds %d bytes, shape %s needs %d", len(src), shape, want)
	}
	f.Width = int(shape.Width)
	f.Height = int(shape.Height)
	f.Channels = int(shape.Channels)
	f.CapturedAt = stamp
	if len(f.Pix) != want {
		f.Pix = make([]byte, want)
	}
	copy(f.Pix, src)
	return nil
}
