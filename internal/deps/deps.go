package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"panchangreel/internal/textutil"
)

// Requirement names an external program the reel pipeline runs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArg, when set, is passed to the binary to read its version.
	VersionArg string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

const versionTimeout = 5 * time.Second

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(ctx, req))
	}
	return results
}

func check(ctx context.Context, req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Path = path
	status.Available = true
	if req.VersionArg != "" {
		status.Version = readVersion(ctx, path, req.VersionArg)
	}
	return status
}

// readVersion returns the first line the binary prints for arg, trimmed of
// the copyright suffix ffmpeg tools append.
func readVersion(ctx context.Context, path, arg string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, arg).Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if idx := strings.Index(line, " Copyright"); idx > 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// ReelRequirements lists the encoder and probe binaries. The probe is only
// optional when verification is disabled.
func ReelRequirements(ffmpegBinary, ffprobeBinary string, verify bool) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     textutil.Or(ffmpegBinary, "ffmpeg"),
			Description: "Encodes reel frames to H.264",
			VersionArg:  "-version",
		},
		{
			Name:        "FFprobe",
			Command:     textutil.Or(ffprobeBinary, "ffprobe"),
			Description: "Verifies written videos",
			Optional:    !verify,
			VersionArg:  "-version",
		},
	}
}

// MissingRequired returns the unavailable, non-optional entries.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
