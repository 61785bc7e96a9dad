// Package version reports build metadata for the -v flag and the Info tab.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Name is the binary name reported by -v.
const Name = "token-usage-tui"

// Set via -ldflags "-X"; empty values are resolved lazily.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	readBuildInfo = debug.ReadBuildInfo
	git           = runGit
	now           = time.Now
)

const gitTimeout = 2 * time.Second

// resolve fills missing fields from the embedded build info first and the
// local git checkout second.
func resolve() {
	once.Do(func() {
		if info, ok := readBuildInfo(); ok {
			fromBuildInfo(info)
		}
		if Commit == "" {
			Commit = gitOr("unknown", "describe", "--always", "--dirty")
		}
		if Version == "" {
			Version = gitOr("dev", "describe", "--tags", "--abbrev=0")
		}
		if Date == "" {
			Date = now().Format(time.DateOnly)
		}
	})
}

func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil && Date == "" {
				Date = t.Format(time.DateOnly)
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit != "" && !strings.HasSuffix(Commit, "-dirty") {
		Commit += "-dirty"
	}
}

func gitOr(fallback string, args ...string) string {
	out, err := git(args...)
	if err != nil || out == "" {
		return fallback
	}
	return out
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// Reset clears resolved metadata so the next accessor resolves it again.
func Reset() {
	once = sync.Once{}
	Version, Commit, Date = "", "", ""
}

// GetVersion returns the release version.
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the source commit.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	resolve()
	return Date
}

// Info returns the one-line version banner.
func Info() string {
	resolve()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s/%s)",
		Name, Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
