// Package misc holds small program-identity helpers.
package misc

import "runtime/debug"

const appName = "imprint"

// GetAppName returns the program name used in logs and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns the module version recorded in build info, or
// "devel" for a plain source build.
func GetVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "devel"
	}
	return bi.Main.Version
}

// GetGitHash returns the vcs revision recorded in build info, if any.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
