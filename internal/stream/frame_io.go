package stream

import (
	"context"
	"fmt"
	"time"

	"shmpipe/internal/token"
)

// Meta carries the per-token header fields alongside a decoded payload.
// Payload is false only for end-of-stream tokens published without data.
type Meta struct {
	Sample  uint64
	EOS     bool
	Payload bool
	Stamp   time.Time
}

// FrameSink publishes frame tokens on a channel.
type FrameSink struct {
	sink *Sink
}

// BindFrames creates a frame channel and takes the producer role.
func BindFrames(name string, shape token.Shape) (*FrameSink, error) {
	if shape.Kind != token.KindFrame {
		return nil, fmt.Errorf("channel %q: %s is not a frame shape: %w",
			name, shape, ErrPayloadShapeMismatch)
	}
	sink, err := Bind(name, shape)
	if err != nil {
		return nil, err
	}
	return &FrameSink{sink: sink}, nil
}

// Name returns the channel name.
func (k *FrameSink) Name() string { return k.sink.Name() }

// Shape returns the bound frame shape.
func (k *FrameSink) Shape() token.Shape { return k.sink.Shape() }

// Push publishes one frame. The frame's geometry must match the bound
// shape.
func (k *FrameSink) Push(ctx context.Context, f *token.Frame) error {
	if !f.Shape().Equal(k.sink.Shape()) {
		return fmt.Errorf("channel %q carries %s, frame is %s: %w",
			k.sink.Name(), k.sink.Shape(), f.Shape(), ErrPayloadShapeMismatch)
	}
	stamp := f.CapturedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return k.sink.Push(ctx, f.Pix, stamp)
}

// Close ends the stream; see Sink.Close.
func (k *FrameSink) Close(ctx context.Context, final bool) error {
	return k.sink.Close(ctx, final)
}

// FrameSource consumes frame tokens from a channel.
type FrameSource struct {
	src *Source
}

// AttachFrames attaches to a frame channel, waiting for it like Attach.
func AttachFrames(ctx context.Context, name string) (*FrameSource, error) {
	src, err := Attach(ctx, name)
	if err != nil {
		return nil, err
	}
	if src.Shape().Kind != token.KindFrame {
		_ = src.Detach()
		return nil, fmt.Errorf("channel %q carries %s, not frames: %w",
			name, src.Shape(), ErrPayloadShapeMismatch)
	}
	return &FrameSource{src: src}, nil
}

// Name returns the channel name.
func (s *FrameSource) Name() string { return s.src.Name() }

// Shape returns the channel's frame shape.
func (s *FrameSource) Shape() token.Shape { return s.src.Shape() }

// Pull retrieves the next frame into f, reusing its pixel buffer. An
// end-of-stream token may carry an empty payload; f is then left
// untouched and only the returned Meta is meaningful.
func (s *FrameSource) Pull(ctx context.Context, f *token.Frame) (Meta, error) {
	tok, err := s.src.Pull(ctx)
	if err != nil {
		return Meta{}, err
	}
	meta := Meta{Sample: tok.Sample, EOS: tok.EOS, Payload: len(tok.Data) > 0, Stamp: tok.Stamp}
	if !meta.Payload && tok.EOS {
		return meta, nil
	}
	if err := token.DecodeFrame(f, tok.Data, s.src.Shape(), tok.Stamp); err != nil {
		return Meta{}, fmt.Errorf("channel %q: %w", s.src.Name(), err)
	}
	return meta, nil
}

// Detach deregisters the reader; see Source.Detach.
func (s *FrameSource) Detach() error { return s.src.Detach() }
