package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

//nolint:gochecknoglobals // Overridden via ldflags.
var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

const shortCommitLength = 7

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Modified  bool
}

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
func Full() string {
	info := Resolve()

	commit := info.Commit
	if info.Modified {
		commit += "-dirty"
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s",
		info.Version, commit, info.BuildTime, info.GoVersion)
}

// Resolve combines the ldflags values with the VCS settings of the binary.
func Resolve() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	return fromSettings(info, buildInfo.Settings)
}

// fromSettings fills metadata left at its default from VCS build settings.
func fromSettings(info Info, settings []debug.BuildSetting) Info {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "none" && setting.Value != "" {
				info.Commit = setting.Value
				if len(info.Commit) > shortCommitLength {
					info.Commit = info.Commit[:shortCommitLength]
				}
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && setting.Value != "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}
