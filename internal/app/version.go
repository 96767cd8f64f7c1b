package app

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X .../internal/app.Version=v1.2.0" and friends. When left at their
// defaults the values are read from the module build info.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool
	GoVersion string
}

// CurrentBuild returns the build description of this binary.
func CurrentBuild() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first 12 characters of the commit hash.
func (b BuildInfo) ShortCommit() string {
	if len(b.Commit) > 12 {
		return b.Commit[:12]
	}
	return b.Commit
}

// String formats the build for the version command.
func (b BuildInfo) String() string {
	commit := b.ShortCommit()
	if commit == "" {
		commit = "unknown"
	}
	if b.Modified {
		commit += "-dirty"
	}
	built := b.BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("audiovisualiser %s (commit: %s, built: %s, %s)", b.Version, commit, built, b.GoVersion)
}

// LogValue groups the build fields in structured logs.
func (b BuildInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", b.Version),
		slog.String("commit", b.ShortCommit()),
		slog.Bool("modified", b.Modified),
		slog.String("go", b.GoVersion),
	)
}
