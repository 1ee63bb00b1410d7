// Package version holds the build metadata of the hilo binary.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Overridden at build time with -ldflags "-X hilo/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the build metadata with blanks trimmed.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"git_commit,omitempty"`
	Date    string `json:"build_date,omitempty"`
}

// Current returns the metadata compiled into the binary. An empty version
// reads as "dev".
func Current() Info {
	info := Info{
		Version: strings.TrimSpace(Version),
		Commit:  strings.TrimSpace(GitCommit),
		Date:    strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

// Semver parses Version. Builds with a non-semantic version return an error.
func Semver() (*semver.Version, error) {
	return semver.StrictNewVersion(strings.TrimSpace(Version))
}

// Colored renders Version with the numeric components highlighted.
// Versions that do not parse are returned unchanged.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Version
	}
	var b strings.Builder
	b.WriteString(majorColor.Sprint(v.Major()))
	b.WriteByte('.')
	b.WriteString(minorColor.Sprint(v.Minor()))
	b.WriteByte('.')
	b.WriteString(patchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		b.WriteString("-" + pre)
	}
	if meta := v.Metadata(); meta != "" {
		b.WriteString("+" + meta)
	}
	return b.String()
}

// String returns the one-line banner.
func String() string {
	info := Current()
	out := "hilo " + Colored()
	if info.Commit != "" {
		out += " (" + info.Commit + ")"
	}
	if info.Date != "" {
		out += " built " + info.Date
	}
	return out
}
