package filter

import (
	"context"
	"fmt"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

// Node pulls frames from one channel, filters them, and republishes on
// another with the same shape. End-of-stream propagates downstream.
type Node struct {
	src   *stream.FrameSource
	sink  *stream.FrameSink
	flt   Filter
	frame token.Frame
}

// NewNode attaches the source, then binds the sink with the source's
// shape. The attach blocks until the upstream sink exists or ctx ends.
func NewNode(ctx context.Context, flt Filter, source, sink string) (*Node, error) {
	src, err := stream.AttachFrames(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", source, err)
	}
	out, err := stream.BindFrames(sink, src.Shape())
	if err != nil {
		_ = src.Detach()
		return nil, fmt.Errorf("bind %q: %w", sink, err)
	}
	return &Node{src: src, sink: out, flt: flt}, nil
}

// Step processes one frame.
func (n *Node) Step(ctx context.Context) (bool, error) {
	meta, err := n.src.Pull(ctx, &n.frame)
	if err != nil {
		return false, err
	}
	if meta.EOS {
		if meta.Payload {
			if err := n.flt.Apply(&n.frame); err != nil {
				return false, err
			}
			if err := n.sink.Push(ctx, &n.frame); err != nil {
				return false, err
			}
		}
		if err := n.sink.Close(ctx, true); err != nil {
			return true, err
		}
		return true, n.src.Detach()
	}
	if err := n.flt.Apply(&n.frame); err != nil {
		return false, err
	}
	return false, n.sink.Push(ctx, &n.frame)
}

// Close releases both channel ends without publishing end-of-stream.
func (n *Node) Close(ctx context.Context) error {
	err := n.sink.Close(ctx, false)
	if derr := n.src.Detach(); err == nil {
		err = derr
	}
	return err
}
