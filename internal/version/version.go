// Package version holds build metadata for the tccl CLI.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in their own colours.
// Anything that is not a dotted triple is returned unchanged.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}

// Line is the full "tccl <version> (<commit>, <date>)" banner.
func Line(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var meta []string
	if GitCommit != "" {
		meta = append(meta, GitCommit)
	}
	if BuildDate != "" {
		meta = append(meta, BuildDate)
	}
	if len(meta) == 0 {
		return "tccl " + v
	}
	return "tccl " + v + " (" + strings.Join(meta, ", ") + ")"
}
