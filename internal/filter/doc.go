// Package filter transforms frame streams in place, one frame in and one
// frame out on the same shape.
//
// The only filter today is bgsub, background subtraction: the background
// is loaded from a PGM file when configured, otherwise the first frame of
// the stream is taken as the background, and every later frame has it
// subtracted per channel with saturation at zero.
package filter
