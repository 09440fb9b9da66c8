package preflight

import (
	"context"
	"fmt"
	"strings"

	"panchangreel/internal/config"
	"panchangreel/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects the optional checks.
type Options struct {
	// RequireAlmanac adds the credential check, for runs that fetch the
	// day's data instead of reading a text file.
	RequireAlmanac bool
	// SkipBinaries omits the ffmpeg and ffprobe lookups.
	SkipBinaries bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckAssetFile("Background image", cfg.BackgroundPath()),
		CheckAssetFile("Intro image", cfg.IntroPath()),
		CheckAssetFile("Outro image", cfg.OutroPath()),
		CheckDirectoryAccess("Image directory", cfg.Paths.ImageDir),
		CheckDirectoryAccess("Video directory", cfg.Paths.VideoDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}

	if opts.RequireAlmanac {
		results = append(results, CheckAlmanacCredentials(cfg.Almanac))
	}

	if !opts.SkipBinaries {
		results = append(results, binaryResults(CheckSystemDeps(ctx, cfg))...)
	}
	return results
}

// Failures returns the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failed checks into a single line for error messages.
func Summary(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}

// binaryResults converts dependency statuses into check results. Only the
// entries deps.MissingRequired reports fail; an absent optional binary passes
// with a note.
func binaryResults(statuses []deps.Status) []Result {
	missing := make(map[string]bool)
	for _, status := range deps.MissingRequired(statuses) {
		missing[status.Name] = true
	}
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		switch {
		case missing[status.Name]:
			results = append(results, Result{Name: status.Name, Detail: status.Detail})
		case !status.Available:
			results = append(results, Result{Name: status.Name, Passed: true, Detail: status.Detail + " (optional)"})
		case status.Version != "":
			results = append(results, Result{Name: status.Name, Passed: true, Detail: status.Version})
		default:
			results = append(results, Result{Name: status.Name, Passed: true, Detail: status.Path})
		}
	}
	return results
}
