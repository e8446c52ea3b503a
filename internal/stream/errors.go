package stream

import "errors"

var (
	// ErrSinkAlreadyBound reports a second producer binding to a channel.
	ErrSinkAlreadyBound = errors.New("a sink is already bound to this channel")

	// ErrPayloadShapeMismatch reports a payload whose shape deviates from
	// the shape fixed at channel creation.
	ErrPayloadShapeMismatch = errors.New("payload shape mismatch")

	// ErrAlreadyClosed reports a pull after end-of-stream was observed,
	// or an attach to a channel whose stream already ended. Calling Pull
	// again after an EOS token is a programming error, not a transient
	// condition.
	ErrAlreadyClosed = errors.New("stream already ended")

	// ErrSinkClosed reports a push after Close. The channel's readers are
	// unaffected.
	ErrSinkClosed = errors.New("sink is closed")
)
