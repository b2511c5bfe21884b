// Package version reports how the adcheck binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags.
var (
	Version   string
	Branch    string
	BuildUser string
	BuildDate string
)

// Info describes a build of adcheck.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the [Info] of the running binary.
func Get() Info {
	var settings []debug.BuildSetting
	if bi, ok := debug.ReadBuildInfo(); ok {
		settings = bi.Settings
	}

	rev := Revision(settings)

	v := Version
	if v == "" {
		v = rev
	}

	return Info{
		Version:   v,
		Revision:  rev,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	return Get().Version
}

func (i Info) String() string {
	return fmt.Sprintf("%s (revision %s, %s %s)", i.Version, i.Revision, i.GoVersion, i.Platform)
}

// Revision returns the short VCS revision recorded in settings, suffixed with
// "-dirty" for modified trees, or "unknown".
func Revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
