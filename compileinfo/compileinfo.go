// Package compileinfo reports how the running binary was built, using the
// module and VCS metadata embedded by the Go toolchain.
package compileinfo

import (
	"fmt"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "build information unavailable"
	}

	version := c.Version
	if version == "" || version == "(devel)" {
		version = "development build"
	}

	s := fmt.Sprintf("%s %s (%s)", c.Package, version, c.GoVersion)
	if c.Commit != "" {
		s += fmt.Sprintf(", commit %s at %s", c.Commit, c.CommitTime)
	}
	if c.Modified {
		s += ", modified after that commit"
	}

	return s
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
