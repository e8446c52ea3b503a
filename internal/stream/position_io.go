package stream

import (
	"context"
	"fmt"
	"time"

	"shmpipe/internal/token"
)

// PositionSink publishes position tokens on a channel.
type PositionSink struct {
	sink *Sink
	buf  []byte
}

// BindPositions creates a position channel and takes the producer role.
func BindPositions(name string) (*PositionSink, error) {
	shape := token.PositionShape()
	sink, err := Bind(name, shape)
	if err != nil {
		return nil, err
	}
	return &PositionSink{sink: sink, buf: make([]byte, shape.PayloadBytes())}, nil
}

// Name returns the channel name.
func (k *PositionSink) Name() string { return k.sink.Name() }

// Push publishes one position record stamped with the capture time of the
// frame it was derived from.
func (k *PositionSink) Push(ctx context.Context, p *token.Position, stamp time.Time) error {
	n, err := token.EncodePosition(k.buf, p)
	if err != nil {
		return fmt.Errorf("channel %q: %w", k.sink.Name(), err)
	}
	return k.sink.Push(ctx, k.buf[:n], stamp)
}

// Close ends the stream; see Sink.Close.
func (k *PositionSink) Close(ctx context.Context, final bool) error {
	return k.sink.Close(ctx, final)
}

// PositionSource consumes position tokens from a channel.
type PositionSource struct {
	src *Source
}

// AttachPositions attaches to a position channel, waiting for it like
// Attach.
func AttachPositions(ctx context.Context, name string) (*PositionSource, error) {
	src, err := Attach(ctx, name)
	if err != nil {
		return nil, err
	}
	if src.Shape().Kind != token.KindPosition {
		_ = src.Detach()
		return nil, fmt.Errorf("channel %q carries %s, not positions: %w",
			name, src.Shape(), ErrPayloadShapeMismatch)
	}
	return &PositionSource{src: src}, nil
}

// Name returns the channel name.
func (s *PositionSource) Name() string { return s.src.Name() }

// Pull retrieves the next position record into p. An end-of-stream token
// may carry an empty payload; p is then left untouched.
func (s *PositionSource) Pull(ctx context.Context, p *token.Position) (Meta, error) {
	tok, err := s.src.Pull(ctx)
	if err != nil {
		return Meta{}, err
	}
	meta := Meta{Sample: tok.Sample, EOS: tok.EOS, Payload: len(tok.Data) > 0, Stamp: tok.Stamp}
	if !meta.Payload && tok.EOS {
		return meta, nil
	}
	if err := token.DecodePosition(p, tok.Data); err != nil {
		return Meta{}, fmt.Errorf("channel %q: %w", s.src.Name(), err)
	}
	return meta, nil
}

// Detach deregisters the reader; see Source.Detach.
func (s *PositionSource) Detach() error { return s.src.Detach() }
