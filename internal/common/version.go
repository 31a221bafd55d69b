package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Set with -ldflags "-X github.com/bobmcallan/folio/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// CurrentBuild returns the build metadata of this binary.
func CurrentBuild() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, Commit: GitCommit}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", b.Version, b.Build, b.Commit)
}

// LoadVersionFromFile fills build metadata that ldflags left at its default
// from a .version file next to the binary.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	f, err := os.Open(filepath.Join(filepath.Dir(exe), ".version"))
	if err != nil {
		return
	}
	defer f.Close()
	applyVersionFile(f)
}

// applyVersionFile reads "key: value" lines; # starts a comment.
func applyVersionFile(r io.Reader) {
	targets := map[string]struct {
		ptr *string
		def string
	}{
		"version": {&Version, "dev"},
		"build":   {&Build, "unknown"},
		"commit":  {&GitCommit, "unknown"},
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		target, known := targets[strings.ToLower(strings.TrimSpace(key))]
		if known && *target.ptr == target.def {
			*target.ptr = strings.TrimSpace(val)
		}
	}
}
