// Package main hosts the panchangreel CLI entrypoint and command graph.
//
// The Cobra command tree exposes the full daily run (generate) alongside each
// stage on its own (fetch, render, compose, verify) so a failed step can be
// repeated without starting over. It centralizes .env loading, configuration
// resolution and logger setup; the work itself lives in internal/pipeline.
package main
