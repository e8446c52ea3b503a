package combine

import (
	"context"
	"fmt"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

// Node pulls from two or more position channels, aligns the records by
// sample number, and publishes the combined record. The output ends as
// soon as any input ends.
type Node struct {
	srcs []*stream.PositionSource
	sink *stream.PositionSink
	comb Combiner

	batch []token.Position
	metas []stream.Meta
}

// NewNode attaches every source and binds the sink. Attaches block until
// the upstream sinks exist or ctx ends.
func NewNode(ctx context.Context, comb Combiner, sources []string, sink string) (*Node, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("combiner needs at least 2 sources, got %d", len(sources))
	}
	n := &Node{
		comb:  comb,
		batch: make([]token.Position, len(sources)),
		metas: make([]stream.Meta, len(sources)),
	}
	for _, name := range sources {
		src, err := stream.AttachPositions(ctx, name)
		if err != nil {
			n.detachAll()
			return nil, fmt.Errorf("attach %q: %w", name, err)
		}
		n.srcs = append(n.srcs, src)
	}
	out, err := stream.BindPositions(sink)
	if err != nil {
		n.detachAll()
		return nil, fmt.Errorf("bind %q: %w", sink, err)
	}
	n.sink = out
	return n, nil
}

// Step pulls one aligned batch, combines it, and publishes the result.
func (n *Node) Step(ctx context.Context) (bool, error) {
	eos, err := n.pullAligned(ctx)
	if err != nil {
		return false, err
	}
	if eos {
		// Release the other producers too: detaching counts any token
		// this node left unconsumed as consumed.
		if err := n.detachAll(); err != nil {
			return true, err
		}
		return true, n.sink.Close(ctx, true)
	}
	out := n.comb.Combine(n.batch)
	return false, n.sink.Push(ctx, &out, n.metas[0].Stamp)
}

// pullAligned fills batch with one record per source, all carrying the
// same sample number. Sources behind the highest sample pull again until
// they catch up.
func (n *Node) pullAligned(ctx context.Context) (eos bool, err error) {
	var max uint64
	for i, src := range n.srcs {
		meta, err := src.Pull(ctx, &n.batch[i])
		if err != nil {
			return false, err
		}
		if meta.EOS {
			return true, nil
		}
		n.metas[i] = meta
		if meta.Sample > max {
			max = meta.Sample
		}
	}
	for {
		aligned := true
		for i, src := range n.srcs {
			for n.metas[i].Sample < max {
				meta, err := src.Pull(ctx, &n.batch[i])
				if err != nil {
					return false, err
				}
				if meta.EOS {
					return true, nil
				}
				n.metas[i] = meta
			}
			if n.metas[i].Sample > max {
				max = n.metas[i].Sample
				aligned = false
			}
		}
		if aligned {
			return false, nil
		}
	}
}

// Close releases every channel end without publishing end-of-stream.
func (n *Node) Close(ctx context.Context) error {
	var err error
	if n.sink != nil {
		err = n.sink.Close(ctx, false)
	}
	if derr := n.detachAll(); err == nil {
		err = derr
	}
	return err
}

func (n *Node) detachAll() error {
	var err error
	for _, src := range n.srcs {
		if derr := src.Detach(); err == nil {
			err = derr
		}
	}
	return err
}
