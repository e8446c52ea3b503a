// Package token defines the fixed slot layout a channel's shared segment
// carries and the payload codecs for the two token kinds.
//
// A slot is one header (synchronization words, sample number,
// end-of-stream flag, shape descriptor, capture stamp) followed by a
// payload buffer sized once at channel creation and reused for every
// publish cycle. Frames travel as raw row-major pixel bytes; positions as
// a fixed 128-byte record. The descriptor is written by the producer at
// bind time and is immutable for the channel's life.
package token
