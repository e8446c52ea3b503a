package record

import (
	"context"
	"fmt"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

// Node pulls position tokens from one channel and appends them to a
// recording session.
type Node struct {
	src     *stream.PositionSource
	store   *Store
	session string
	p       token.Position
}

// NewNode attaches the source and opens a session. The attach blocks
// until the upstream sink exists or ctx ends.
func NewNode(ctx context.Context, store *Store, source string) (*Node, error) {
	src, err := stream.AttachPositions(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", source, err)
	}
	session, err := store.BeginSession(ctx, source)
	if err != nil {
		_ = src.Detach()
		return nil, err
	}
	return &Node{src: src, store: store, session: session}, nil
}

// Session returns the recording session id.
func (n *Node) Session() string { return n.session }

// Step records one position.
func (n *Node) Step(ctx context.Context) (bool, error) {
	meta, err := n.src.Pull(ctx, &n.p)
	if err != nil {
		return false, err
	}
	if meta.Payload {
		if err := n.store.Append(ctx, n.session, meta.Sample, meta.Stamp, &n.p); err != nil {
			return false, err
		}
	}
	if meta.EOS {
		if err := n.store.FinishSession(ctx, n.session); err != nil {
			return true, err
		}
		return true, n.src.Detach()
	}
	return false, nil
}

// Close stamps the session end and detaches from the channel.
func (n *Node) Close(ctx context.Context) error {
	err := n.store.FinishSession(ctx, n.session)
	if derr := n.src.Detach(); err == nil {
		err = derr
	}
	return err
}
