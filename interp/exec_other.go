//go:build !unix

package interp

import (
	"os"
	"os/exec"
)

// dupFile has no portable duplication primitive outside unix in this
// module (no golang.org/x/sys/windows dependency is wired, see
// DESIGN.md); the same *os.File is handed back, which is safe for
// crsh's usage since the caller never closes a stream out from under a
// child it already started on non-unix platforms reached by this
// build.
func dupFile(f *os.File) (*os.File, error) {
	return f, nil
}

// setpgid is a no-op outside unix: process groups are a POSIX concept.
func setpgid(cmd *exec.Cmd) {}
