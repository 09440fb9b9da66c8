package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"panchangreel/internal/config"
	"panchangreel/internal/deps"
	"panchangreel/internal/imageio"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAssetFile verifies that path holds a decodable image.
func CheckAssetFile(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	format, size, err := imageio.Probe(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s %dx%d)", path, format, size.X, size.Y)}
}

// CheckAlmanacCredentials reports whether the Prokerala client credentials
// are configured.
func CheckAlmanacCredentials(cfg config.Almanac) Result {
	const name = "Almanac credentials"
	switch {
	case cfg.ClientID == "" && cfg.ClientSecret == "":
		return Result{Name: name, Detail: "missing client_id and client_secret"}
	case cfg.ClientID == "":
		return Result{Name: name, Detail: "missing client_id"}
	case cfg.ClientSecret == "":
		return Result{Name: name, Detail: "missing client_secret"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckSystemDeps evaluates the encoder and probe binaries for cfg. Both
// RunAll and the check command use it so the requirement list lives in one
// place.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(ctx, deps.ReelRequirements(cfg.Reel.FFmpegBinary, cfg.Reel.FFprobeBinary, cfg.Reel.Verify))
}
