// Package node runs the pull -> compute -> push loop every pipeline
// executable shares.
//
// A node implements Stepper: one Step performs a single cycle and reports
// whether end-of-stream was observed. Run loops Step until EOS, error, or
// context cancellation; an interrupt cancels the context, which wakes any
// blocked transport call immediately, so the in-flight token finishes and
// the loop exits instead of waiting out a poll tick.
package node
