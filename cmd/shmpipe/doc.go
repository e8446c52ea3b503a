// Package main hosts the shmpipe CLI entrypoint and command graph.
//
// Each subcommand runs one pipeline node over named shared memory
// channels: serve publishes synthetic frames, filter and detect transform
// streams, combine merges position streams, decorate overlays detections,
// record persists them, and watch and channels observe without joining
// the pipeline. Node wiring is positional (SOURCE and SINK channel
// names); tuning comes from an optional TOML file selected with
// --config-file and --config-key.
//
// Keep this package lean: new behavior belongs in the internal packages,
// surfaced here through dedicated commands or flags.
package main
