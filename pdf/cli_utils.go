package pdf

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// execCommandWithTimeout executes a command with a timeout
func execCommandWithTimeout(parent context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("command timed out after %v", timeout)
	}

	if err != nil {
		return output, fmt.Errorf("command failed: %v", err)
	}

	return output, nil
}

// viewerCommand returns the command that opens path in the default viewer for goos
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// openInViewer hands path to the platform's default PDF viewer
func openInViewer(ctx context.Context, timeout time.Duration, path string) error {
	name, args := viewerCommand(runtime.GOOS, path)
	output, err := execCommandWithTimeout(ctx, timeout, name, args...)
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("%s failed: %v\nOutput: %s", name, err, string(output))
		}
		return fmt.Errorf("%s failed: %v", name, err)
	}
	return nil
}
