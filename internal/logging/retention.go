package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RetentionTarget names a directory of dated run files, such as the daily
// logs or the almanac artifacts written by each fetch.
type RetentionTarget struct {
	Dir string
	// Prefix selects the files; the characters after it start with the
	// file's date.
	Prefix string
	// DateLayout parses that date. Empty means "20060102". Files whose name
	// does not parse fall back to their modification time.
	DateLayout string
	// KeepNewest files survive regardless of age so a later stage can still
	// find the most recent reel text.
	KeepNewest int
}

type datedFile struct {
	path string
	date time.Time
}

// PruneRunFiles removes files older than retentionDays from every target and
// returns the removed paths. A retentionDays value of 0 disables pruning.
func PruneRunFiles(logger *slog.Logger, now time.Time, retentionDays int, targets ...RetentionTarget) []string {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	var removed []string
	for _, target := range targets {
		files := target.list()
		sort.Slice(files, func(i, j int) bool { return files[i].date.After(files[j].date) })
		for i, f := range files {
			if i < target.KeepNewest || !f.date.Before(cutoff) {
				continue
			}
			if err := os.Remove(f.path); err != nil {
				WarnWithContext(logger, "retention remove failed; file remains", "retention_failed",
					String("path", f.path),
					Error(err),
					String(FieldErrorHint, "check file permissions on "+target.Dir),
					String(FieldImpact, "old run file remains on disk"),
				)
				continue
			}
			removed = append(removed, f.path)
		}
	}
	if len(removed) > 0 && logger != nil {
		logger.Info("old run files pruned",
			Event("retention_pruned"),
			Int("removed", len(removed)),
			Int("retention_days", retentionDays),
		)
	}
	return removed
}

func (t RetentionTarget) list() []datedFile {
	dir := strings.TrimSpace(t.Dir)
	if dir == "" || t.Prefix == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	layout := t.DateLayout
	if layout == "" {
		layout = "20060102"
	}
	var files []datedFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, t.Prefix) {
			continue
		}
		f := datedFile{path: filepath.Join(dir, name)}
		rest := strings.TrimPrefix(name, t.Prefix)
		if len(rest) >= len(layout) {
			if date, err := time.ParseInLocation(layout, rest[:len(layout)], time.Local); err == nil {
				f.date = date
			}
		}
		if f.date.IsZero() {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			f.date = info.ModTime()
		}
		files = append(files, f)
	}
	return files
}
