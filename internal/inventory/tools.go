// Package inventory reports installed versions for the esm-tools family.
//
// Each known tool is expected to be installed as a Go binary built from
// github.com/esm-tools/<tool>. The reporter locates the binary and reads
// its embedded module build info; a tool that cannot be located, or whose
// binary carries no usable build info, is reported with the
// UnknownVersion sentinel rather than as an error.
package inventory

import "strings"

// UnknownVersion is the sentinel reported for tools that cannot be
// located or carry no version information.
const UnknownVersion = "unknown version!"

// KnownTools is the fixed list of esm-tools components tracked by
// esm_versions. Order is the report output order.
var KnownTools = []string{
	"esm_archiving",
	"esm_autotests",
	"esm_calendar",
	"esm_database",
	"esm_environment",
	"esm_master",
	"esm_parser",
	"esm_profile",
	"esm_rcfile",
	"esm_runscripts",
	"esm_tools",
	"esm_plugin_manager",
	"esm_version_checker",
}

// IsKnown reports whether name is one of the tracked tools.
func IsKnown(name string) bool {
	for _, tool := range KnownTools {
		if tool == name {
			return true
		}
	}
	return false
}

// ModulePath returns the Go module path a tool is installed from.
func ModulePath(tool string) string {
	return "github.com/esm-tools/" + tool
}

// BinaryName returns the name of the installed binary for a tool.
// The version checker itself installs as esm_versions; every other tool
// installs under its own name.
func BinaryName(tool string) string {
	if tool == "esm_version_checker" {
		return "esm_versions"
	}
	return tool
}

// CanonicalName resolves user-facing aliases to tracked tool names.
func CanonicalName(name string) string {
	if name == "esm_versions" {
		return "esm_version_checker"
	}
	return name
}

// SplitSpec splits an upgrade argument of the form <tool>==<version> or
// <tool>=<version> into its parts. Without a version suffix the whole
// argument is the tool name and version is empty, meaning latest.
func SplitSpec(arg string) (tool, version string) {
	if name, ver, ok := strings.Cut(arg, "=="); ok {
		return name, ver
	}
	if name, ver, ok := strings.Cut(arg, "="); ok {
		return name, ver
	}
	return arg, ""
}
