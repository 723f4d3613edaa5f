package liftover2d

import (
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading ~/ to the current user's home directory. If the
// home directory cannot be determined the path is returned unchanged.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		return path
	}

	return filepath.Join(usr.HomeDir, path[2:])
}
