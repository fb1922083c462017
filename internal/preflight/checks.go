package preflight

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"framecap/internal/config"
	"framecap/internal/deps"
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

// CheckFFmpeg runs `ffmpeg -version` with a short timeout and reports the
// version line.
func CheckFFmpeg(ctx context.Context, binary string) Result {
	const name = "FFmpeg"

	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, binary, "-hide_banner", "-version").Output() //nolint:gosec
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", binary, err)}
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return Result{Name: name, Passed: true, Detail: line}
		}
	}
	return Result{Name: name, Passed: true, Detail: binary}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return deps.Check(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.FFmpeg.VerifyOutput))
}
