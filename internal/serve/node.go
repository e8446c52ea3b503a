package serve

import (
	"context"
	"fmt"
	"time"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

// Node publishes generated frames on a channel, pacing to the configured
// rate and ending the stream after the configured count.
type Node struct {
	gen   *Generator
	sink  *stream.FrameSink
	cfg   Config
	frame token.Frame
	next  time.Time
}

// NewNode binds the sink for the generator's shape.
func NewNode(cfg Config, sink string) (*Node, error) {
	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	out, err := stream.BindFrames(sink, gen.Shape())
	if err != nil {
		return nil, fmt.Errorf("bind %q: %w", sink, err)
	}
	return &Node{gen: gen, sink: out, cfg: cfg}, nil
}

// Step publishes one frame, sleeping first when pacing is on. After the
// configured count the stream ends.
func (n *Node) Step(ctx context.Context) (bool, error) {
	if n.cfg.Count > 0 && n.gen.Frames() >= n.cfg.Count {
		return true, n.sink.Close(ctx, true)
	}
	if err := n.pace(ctx); err != nil {
		return false, err
	}
	n.gen.Next(&n.frame)
	return false, n.sink.Push(ctx, &n.frame)
}

func (n *Node) pace(ctx context.Context) error {
	if n.cfg.FPS <= 0 {
		return nil
	}
	period := time.Duration(float64(time.Second) / n.cfg.FPS)
	now := time.Now()
	if n.next.IsZero() || now.After(n.next.Add(period)) {
		n.next = now
	}
	wait := n.next.Sub(now)
	n.next = n.next.Add(period)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close releases the sink, publishing end-of-stream so consumers shut
// down instead of waiting forever.
func (n *Node) Close(ctx context.Context) error {
	return n.sink.Close(ctx, true)
}
