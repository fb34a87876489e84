//go:build unix

package interp

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// dupFile duplicates f at the kernel level via unix.Dup, so the
// returned *os.File and f refer to the same open file description but
// can be closed independently (spec §3's "every handle must be
// cloneable fallibly").
func dupFile(f *os.File) (*os.File, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("crsh: dup %s: %w", f.Name(), err)
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

// setpgid makes cmd the leader of a new process group of its own when
// it is started (Pgid is left 0). Each external command gets a separate
// group, so the stages of a pipeline do not share one; killGroup
// signals a single command's group.
func setpgid(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// killGroup sends sig to every process in pgid's process group.
func killGroup(pgid int, sig unix.Signal) error {
	return unix.Kill(-pgid, sig)
}
