// Package ffprobe provides a typed wrapper around ffprobe JSON output and
// the checks used to confirm a written reel matches its timeline.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Expectation: the frame count, rate and dimensions a video should have
//   - Report: what was measured and any mismatches found
//
// Inspect executes ffprobe and returns a parsed Result; Verify compares a
// Result against an Expectation.
package ffprobe
