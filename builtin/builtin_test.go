package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ndunnett/crsh/expand"
	"github.com/ndunnett/crsh/interp"
)

func newTestRunner(t *testing.T, pwd string) *interp.Runner {
	t.Helper()
	env := expand.ListEnviron("HOME=" + pwd)
	r, err := interp.New(interp.WithEnv(env))
	qt.Assert(t, err, qt.IsNil)
	r.PWD = pwd
	r.Builtins = Registry()
	return r
}

func TestExitParsesCode(t *testing.T) {
	t.Parallel()
	b, err := BuildExit([]string{"3"})
	qt.Assert(t, err, qt.IsNil)
	r, _ := interp.New(interp.WithEnv(expand.ListEnviron()))
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.ExitCode(3))
	qt.Assert(t, r.ShouldExit(), qt.IsTrue)
}

func TestExitRejectsExtraArgs(t *testing.T) {
	t.Parallel()
	_, err := BuildExit([]string{"1", "2"})
	qt.Assert(t, err, qt.Not(qt.IsNil))
}

func TestCDHome(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := newTestRunner(t, dir)
	b, err := BuildCD(nil)
	qt.Assert(t, err, qt.IsNil)
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.Success)
	qt.Assert(t, r.PWD, qt.Equals, dir)
}

func TestCDDash(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	other := t.TempDir()
	r := newTestRunner(t, dir)
	r.OldPWD = other
	b, err := BuildCD([]string{"-"})
	qt.Assert(t, err, qt.IsNil)
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.Success)
	qt.Assert(t, r.PWD, qt.Equals, other)
	qt.Assert(t, r.OldPWD, qt.Equals, dir)
}

func TestCDNotADirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	qt.Assert(t, os.WriteFile(file, []byte("x"), 0o644), qt.IsNil)
	r := newTestRunner(t, dir)
	b, err := BuildCD([]string{file})
	qt.Assert(t, err, qt.IsNil)
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.NoInput)
}

func TestCDRejectsBothFlags(t *testing.T) {
	t.Parallel()
	_, err := BuildCD([]string{"-L", "-P"})
	qt.Assert(t, err, qt.Not(qt.IsNil))
}

func TestWhichBuiltin(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, t.TempDir())
	b, err := BuildWhich([]string{"cd"})
	qt.Assert(t, err, qt.IsNil)
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.Success)
	qt.Assert(t, out.String(), qt.Equals, "cd: shell builtin\n")
}

func TestWhichAllMissing(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, t.TempDir())
	r.Env = expand.ListEnviron("PATH=")
	b, err := BuildWhich([]string{"nosuchcommand123"})
	qt.Assert(t, err, qt.IsNil)
	var out bytes.Buffer
	code := b.Run(r, interp.IOContext{Stdout: &out, Stderr: &out})
	qt.Assert(t, code, qt.Equals, interp.Success)
	qt.Assert(t, out.String(), qt.Equals, "nosuchcommand123 not found\n")
}
