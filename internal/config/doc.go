// Package config loads per-node TOML configuration.
//
// One file can configure many nodes: each node is pointed at a table by
// its configuration key, mirroring the SOURCE/SINK positional style of
// the command line. Top-level keys hold options common to every node
// (log level and format). Unknown keys inside a selected table are
// rejected so typos fail at startup instead of silently using defaults.
package config
