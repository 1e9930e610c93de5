// Package buildinfo carries the version stamped into a build.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

var readBuildInfo = debug.ReadBuildInfo

// Short returns a compact build identifier for the status panel and logs.
// Without a stamped version or commit it falls back to the VCS revision the
// toolchain recorded, then to "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return abbrev(Commit)
	}
	if rev := vcsRevision(); rev != "" {
		return abbrev(rev)
	}
	return "dev"
}

// String returns the version, commit and date on one line.
func String() string {
	var b strings.Builder
	b.WriteString("ember ")
	b.WriteString(Short())
	if Commit != "" && Commit != "unknown" && Short() != abbrev(Commit) {
		b.WriteString(" commit ")
		b.WriteString(abbrev(Commit))
	}
	if Date != "" && Date != "unknown" {
		b.WriteString(" built ")
		b.WriteString(Date)
	}
	return b.String()
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev != "" && dirty {
		rev = abbrev(rev) + "+"
	}
	return rev
}

func abbrev(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
