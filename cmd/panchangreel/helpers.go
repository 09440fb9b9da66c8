package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"panchangreel/internal/artifacts"
	"panchangreel/internal/config"
	"panchangreel/internal/services"
	"panchangreel/internal/textutil"
)

// readReelLines loads reel text from path, or from the newest text artifact
// in the data directory when path is empty. The second return names the
// source for display.
func readReelLines(cfg *config.Config, path string) ([]string, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		latest, err := artifacts.NewStore(cfg.Paths.DataDir).LatestText()
		if err != nil {
			return nil, "", services.Wrap(services.ErrNotFound, "cli", "find reel text", "run `panchangreel fetch` or pass --lines", err)
		}
		path = latest
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, "", fmt.Errorf("resolve lines path: %w", err)
		}
		path = expanded
	}
	lines, err := artifacts.ReadLines(path)
	if err != nil {
		return nil, "", services.Wrap(services.ErrNotFound, "cli", "read reel text", path, err)
	}
	return lines, path, nil
}

func formatDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

func formatSize(size int64) string {
	if size <= 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(size))
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}

func plural(n int, word string) string {
	return fmt.Sprintf("%d %s", n, textutil.Ternary(n == 1, word, word+"s"))
}
