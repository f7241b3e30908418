package inventory

import (
	"fmt"
	"strings"
)

// ReportHeader is the first line of the check output.
const ReportHeader = "You are using the following esm_tools versions:"

// Entry is the probe result for a single known tool.
type Entry struct {
	// Tool is the tracked tool name
	Tool string
	// Module is the Go module path the tool installs from
	Module string
	// Version is the reported version, or UnknownVersion
	Version string
	// Installed is true when a binary (or checkout) was located
	Installed bool
	// Dev is true for development installs (local builds / checkouts)
	Dev bool
	// BinPath is the located binary, empty when not installed
	BinPath string
	// DevPath is the development checkout, when known
	DevPath string
	// Branch is the checkout's active branch, when known
	Branch string
	// Describe is `git describe` output for the checkout, when known
	Describe string
}

// Line renders the entry as a single report line.
func (e Entry) Line() string {
	line := fmt.Sprintf("%s : %s", e.Tool, e.Version)
	if e.Dev && e.Branch != "" {
		line += fmt.Sprintf(" (development install, on branch: %s, describe=%s)", e.Branch, e.Describe)
	}
	return line
}

// Report maps every known tool to its probed version.
// Entries are ordered by KnownTools; there is exactly one per tool.
type Report struct {
	Entries []Entry
}

// Lookup returns the entry for a tool, if present.
func (r *Report) Lookup(tool string) (Entry, bool) {
	for _, entry := range r.Entries {
		if entry.Tool == tool {
			return entry, true
		}
	}
	return Entry{}, false
}

// Versions returns the name -> version mapping.
func (r *Report) Versions() map[string]string {
	versions := make(map[string]string, len(r.Entries))
	for _, entry := range r.Entries {
		versions[entry.Tool] = entry.Version
	}
	return versions
}

// Installed returns the tools that were located, in report order.
func (r *Report) Installed() []string {
	var tools []string
	for _, entry := range r.Entries {
		if entry.Installed {
			tools = append(tools, entry.Tool)
		}
	}
	return tools
}

// Format renders the full report: header, separator, one line per tool.
func (r *Report) Format() string {
	var b strings.Builder
	b.WriteString(ReportHeader + "\n")
	b.WriteString(strings.Repeat("-", len(ReportHeader)) + "\n")
	for _, entry := range r.Entries {
		b.WriteString(entry.Line() + "\n")
	}
	return b.String()
}
