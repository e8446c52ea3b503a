// Package record persists position streams to SQLite.
//
// Each run of the recorder opens one session row keyed by a random UUID
// and appends one row per position token, including invalid ones, so the
// sample sequence stays gap-free for later analysis.
package record
