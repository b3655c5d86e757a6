package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the gamedb CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Plain returns Version with the ANSI color codes stripped, for
// machine-readable contexts (SARIF tool metadata, --version plumbing).
func Plain() string {
	out := Version
	// color.Sprint вставляет только SGR последовательности
	for {
		start := strings.Index(out, "\x1b[")
		if start < 0 {
			return out
		}
		end := strings.Index(out[start:], "m")
		if end < 0 {
			return out
		}
		out = out[:start] + out[start+end+1:]
	}
}

// Long composes the full version line for `gamedb version`: semantic
// version plus whatever build metadata was linked in.
func Long() string {
	var sb strings.Builder
	sb.WriteString(Version)
	if GitCommit != "" {
		sb.WriteString(" (")
		sb.WriteString(GitCommit)
		if GitMessage != "" {
			sb.WriteString(": ")
			sb.WriteString(GitMessage)
		}
		sb.WriteString(")")
	}
	if BuildDate != "" {
		sb.WriteString(" built ")
		sb.WriteString(BuildDate)
	}
	return sb.String()
}
