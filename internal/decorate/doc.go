// Package decorate overlays detected positions onto the frames they came
// from and republishes the marked-up stream.
//
// Frames and positions are consumed one for one: detectors emit exactly
// one position per frame, so the streams stay in step without sample
// bookkeeping. A valid position paints a crosshair (and optionally the
// detection bounding box); an invalid one passes the frame through
// unmarked.
package decorate
