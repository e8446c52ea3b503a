package detect

import (
	"context"
	"fmt"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

// Node pulls frames from one channel, runs a detector, and publishes one
// position per frame on another. End-of-stream propagates: when the
// frame source ends, the position sink ends too.
type Node struct {
	src   *stream.FrameSource
	sink  *stream.PositionSink
	det   Detector
	frame token.Frame
}

// NewNode attaches the frame source and binds the position sink. The
// source attach blocks until the upstream sink exists or ctx ends.
func NewNode(ctx context.Context, det Detector, source, sink string) (*Node, error) {
	src, err := stream.AttachFrames(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", source, err)
	}
	out, err := stream.BindPositions(sink)
	if err != nil {
		_ = src.Detach()
		return nil, fmt.Errorf("bind %q: %w", sink, err)
	}
	return &Node{src: src, sink: out, det: det}, nil
}

// Step processes one frame. On end-of-stream the final position (if the
// EOS token carried a frame) is published with the EOS flag set and the
// sink is closed.
func (n *Node) Step(ctx context.Context) (bool, error) {
	meta, err := n.src.Pull(ctx, &n.frame)
	if err != nil {
		return false, err
	}
	if meta.EOS {
		if meta.Payload {
			pos := n.det.Detect(&n.frame)
			if err := n.sink.Push(ctx, &pos, meta.Stamp); err != nil {
				return false, err
			}
		}
		if err := n.sink.Close(ctx, true); err != nil {
			return true, err
		}
		return true, n.src.Detach()
	}
	pos := n.det.Detect(&n.frame)
	if err := n.sink.Push(ctx, &pos, meta.Stamp); err != nil {
		return false, err
	}
	return false, nil
}

// Close releases both channel ends without publishing end-of-stream.
func (n *Node) Close(ctx context.Context) error {
	err := n.sink.Close(ctx, false)
	if derr := n.src.Detach(); err == nil {
		err = derr
	}
	return err
}
