// Package logging assembles the structured slog loggers shared by every
// pipeline node executable.
//
// Nodes log to stderr so the transport's data path stays silent; console
// output is the default, JSON is available for log collection. The no-op
// logger keeps tests and wiring code quiet. Prefer these constructors
// over hand-rolled slog setup so every node emits the same shape.
package logging
