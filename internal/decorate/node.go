package decorate

import (
	"context"
	"fmt"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
	"shmpipe/internal/vision"
)

// Config tunes the overlay.
type Config struct {
	// MarkerSize is the crosshair arm length in pixels.
	MarkerSize int `toml:"marker_size"`
	// DrawRegion outlines the detection bounding box when present.
	DrawRegion bool `toml:"draw_region"`
	// EncodeSample paints the sample number into the top left corner so
	// recordings stay alignable to the originating sample.
	EncodeSample bool `toml:"encode_sample"`
}

// DefaultConfig draws a crosshair and the region outline.
func DefaultConfig() Config {
	return Config{MarkerSize: 6, DrawRegion: true}
}

// Validate rejects nonsensical tuning values.
func (c Config) Validate() error {
	if c.MarkerSize < 1 {
		return fmt.Errorf("marker_size must be >= 1, got %d", c.MarkerSize)
	}
	return nil
}

// Node pairs each frame with the position derived from it and republishes
// the frame with the detection drawn on. Frames and positions are
// consumed one for one; the output ends when either input ends.
type Node struct {
	frames *stream.FrameSource
	pos    *stream.PositionSource
	sink   *stream.FrameSink
	cfg    Config

	frame token.Frame
	p     token.Position
}

// NewNode attaches both sources, then binds the sink with the frame
// source's shape.
func NewNode(ctx context.Context, cfg Config, frameSource, positionSource, sink string) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs, err := stream.AttachFrames(ctx, frameSource)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", frameSource, err)
	}
	ps, err := stream.AttachPositions(ctx, positionSource)
	if err != nil {
		_ = fs.Detach()
		return nil, fmt.Errorf("attach %q: %w", positionSource, err)
	}
	out, err := stream.BindFrames(sink, fs.Shape())
	if err != nil {
		_ = fs.Detach()
		_ = ps.Detach()
		return nil, fmt.Errorf("bind %q: %w", sink, err)
	}
	return &Node{frames: fs, pos: ps, sink: out, cfg: cfg}, nil
}

// Step decorates one frame.
func (n *Node) Step(ctx context.Context) (bool, error) {
	fm, err := n.frames.Pull(ctx, &n.frame)
	if err != nil {
		return false, err
	}
	if fm.EOS && !fm.Payload {
		return true, n.finish(ctx)
	}
	pm, err := n.pos.Pull(ctx, &n.p)
	if err != nil {
		return false, err
	}

	if pm.Payload {
		n.draw(fm.Sample)
	}
	if err := n.sink.Push(ctx, &n.frame); err != nil {
		return false, err
	}
	if fm.EOS || pm.EOS {
		return true, n.finish(ctx)
	}
	return false, nil
}

// finish ends the output stream and releases both inputs, so producers
// blocked on an unconsumed final token are freed.
func (n *Node) finish(ctx context.Context) error {
	err := n.sink.Close(ctx, true)
	if derr := n.frames.Detach(); err == nil {
		err = derr
	}
	if derr := n.pos.Detach(); err == nil {
		err = derr
	}
	return err
}

func (n *Node) draw(sample uint64) {
	if n.p.Valid {
		vision.DrawCross(&n.frame, int(n.p.X), int(n.p.Y), n.cfg.MarkerSize, 255)
		if n.cfg.DrawRegion && n.p.HasRegion {
			vision.DrawRect(&n.frame, vision.Rect{
				X: int(n.p.Region.X),
				Y: int(n.p.Region.Y),
				W: int(n.p.Region.W),
				H: int(n.p.Region.H),
			}, 255)
		}
	}
	if n.cfg.EncodeSample {
		vision.EncodeSampleBits(&n.frame, sample)
	}
}

// Close releases every channel end without publishing end-of-stream.
func (n *Node) Close(ctx context.Context) error {
	err := n.sink.Close(ctx, false)
	if derr := n.frames.Detach(); err == nil {
		err = derr
	}
	if derr := n.pos.Detach(); err == nil {
		err = derr
	}
	return err
}
