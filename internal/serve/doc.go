// Package serve generates synthetic test frames and publishes them on a
// channel, standing in for a camera at the head of a pipeline.
//
// The pattern is a bright dot orbiting the frame center on a dark
// background. On three-channel frames the dot is red so the color
// detectors have something to lock onto; on single-channel frames it is
// simply bright.
package serve
