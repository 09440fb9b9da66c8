package reel

import (
	"fmt"
	"os"

	"panchangreel/internal/fileutil"
)

// PrepareOutput makes sure dir exists and removes every existing .mp4 file
// in it, so the directory holds only the video about to be written. It
// returns the removed paths. Running it twice is harmless.
func PrepareOutput(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	removed, err := fileutil.RemoveMatching(dir, "*.mp4")
	if err != nil {
		return removed, fmt.Errorf("clear output directory: %w", err)
	}
	return removed, nil
}
