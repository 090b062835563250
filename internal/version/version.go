// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

const gitTimeout = 2 * time.Second

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	execCommand = exec.CommandContext

	mu      sync.Mutex
	once    sync.Once
	version string
	commit  string
	date    string
)

func ensureInitialized() {
	once.Do(func() {
		version, commit, date = Version, Commit, Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if commit == "" {
			commit = git("unknown", "describe", "--always", "--dirty")
		}
		if version == "" {
			version = git("dev", "describe", "--tags", "--abbrev=0")
		}
	})
}

// git runs a git subcommand and returns its trimmed output, or fallback
// when git fails or prints nothing.
func git(fallback string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fallback
	}
	if s := strings.TrimSpace(out.String()); s != "" {
		return s
	}
	return fallback
}

// Reset clears the resolved values so the next call resolves them again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
}

func resolved() (string, string, string) {
	mu.Lock()
	defer mu.Unlock()
	ensureInitialized()
	return version, commit, date
}

// GetVersion returns the release version, or "dev".
func GetVersion() string {
	v, _, _ := resolved()
	return v
}

// GetCommit returns the commit the binary was built from.
func GetCommit() string {
	_, c, _ := resolved()
	return c
}

// GetDate returns the build date.
func GetDate() string {
	_, _, d := resolved()
	return d
}

// Info returns the one-line version banner.
func Info() string {
	v, c, d := resolved()
	return fmt.Sprintf("prediksi %s (commit: %s, built: %s, %s, %s/%s)",
		v, c, d, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
