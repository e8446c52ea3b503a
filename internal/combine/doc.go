// Package combine merges several position streams into one.
//
// Sources are aligned by sample number before combining: the node pulls
// one record from every source, then advances whichever sources lag
// behind the highest sample seen until all records agree. Streams that
// attached at different points converge after at most one alignment
// round because every reader observes every sample published after it
// registered.
package combine
