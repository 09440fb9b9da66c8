// Package textutil provides text cleanup helpers for reel content.
//
// The primary use cases are:
//   - Removing pictographs that the bundled fonts cannot draw
//   - Normalizing API labels for display
//   - Falling back to defaults for blank config and API values
package textutil
