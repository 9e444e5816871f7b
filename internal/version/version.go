// Package version reports the build information of the nescore binary
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"nescore/internal/statsview"
)

const unknown = "unknown"

var (
	// Set at build time with -ldflags "-X nescore/internal/version.Version=..."
	Version   = "dev"
	GitCommit = unknown
	BuildTime = unknown
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version    string
	GitCommit  string
	BuildTime  string
	GoVersion  string
	Platform   string
	Arch       string
	Modified   bool
	CGOEnabled bool
	Statsview  bool
}

// GetBuildInfo returns the build information, filling gaps left by the
// linker flags from the VCS stamp in the binary.
func GetBuildInfo() BuildInfo {
	bi := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Statsview: statsview.Available(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		bi.apply(info.Settings)
	}
	return bi
}

func (bi *BuildInfo) apply(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if bi.GitCommit == unknown {
				bi.GitCommit = s.Value
			}
		case "vcs.time":
			if bi.BuildTime == unknown {
				bi.BuildTime = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		case "CGO_ENABLED":
			bi.CGOEnabled = s.Value == "1"
		}
	}
}

// ShortCommit returns the first seven characters of the commit hash
func (bi BuildInfo) ShortCommit() string {
	if len(bi.GitCommit) > 7 {
		return bi.GitCommit[:7]
	}
	return bi.GitCommit
}

// GetVersion returns a simple version string
func GetVersion() string {
	return GetBuildInfo().String()
}

// String returns the version, with the commit for development builds
func (bi BuildInfo) String() string {
	if bi.Version != "dev" || bi.GitCommit == unknown {
		return bi.Version
	}
	v := "dev-" + bi.ShortCommit()
	if bi.Modified {
		v += "+dirty"
	}
	return v
}

// Detailed returns a one line description of the build
func (bi BuildInfo) Detailed() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nescore version %s", bi)

	if bi.GitCommit != unknown {
		fmt.Fprintf(&b, " (commit %s)", bi.ShortCommit())
	}

	if bi.BuildTime != unknown {
		if t, err := time.Parse(time.RFC3339, bi.BuildTime); err == nil {
			fmt.Fprintf(&b, " built on %s", t.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&b, " built on %s", bi.BuildTime)
		}
	}

	fmt.Fprintf(&b, " with %s for %s/%s", bi.GoVersion, bi.Platform, bi.Arch)
	return b.String()
}

// WriteBuildInfo writes formatted build information to w
func WriteBuildInfo(w io.Writer) {
	bi := GetBuildInfo()

	fmt.Fprintf(w, "nescore - NES core emulator\n")
	fmt.Fprintf(w, "Version:     %s\n", bi)
	fmt.Fprintf(w, "Git Commit:  %s\n", bi.GitCommit)
	fmt.Fprintf(w, "Build Time:  %s\n", bi.BuildTime)
	fmt.Fprintf(w, "Go Version:  %s\n", bi.GoVersion)
	fmt.Fprintf(w, "Platform:    %s/%s\n", bi.Platform, bi.Arch)
	fmt.Fprintf(w, "CGO Enabled: %t\n", bi.CGOEnabled)
	fmt.Fprintf(w, "Statsview:   %t\n", bi.Statsview)
}
