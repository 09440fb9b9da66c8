// Package services defines shared utilities consumed by the reel pipeline
// stages and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp reel dates, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into asset, writer, configuration, and external tool errors so the CLI
//     can report them with distinct exit codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
