// Package version carries build information, stamped at compile time:
//
//	go build -ldflags "-X github.com/gastoncarriquiry/menu-maker/version.Version=1.2.0"
package version

import "runtime/debug"

var (
	// Version is the release version.
	Version = "1.0.0"
	// Commit is the git commit hash the binary was built from.
	Commit = ""
)

// String returns the version, with the short commit hash appended when
// one is known.
func String() string {
	commit := Commit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		return Version
	}
	return Version + "+" + commit
}
