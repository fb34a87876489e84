package shell

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ndunnett/crsh/expand"
	"github.com/ndunnett/crsh/interp"
)

func newShell(t *testing.T, env ...string) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	s, err := New(
		WithEnv(expand.ListEnviron(env...)),
		WithIO(bytes.NewReader(nil), &stdout, &stderr),
	)
	qt.Assert(t, err, qt.IsNil)
	return s, &stdout, &stderr
}

func TestInterpretRunsOneProgram(t *testing.T) {
	t.Parallel()
	s, _, _ := newShell(t)
	code := s.Interpret("exit 6")
	qt.Assert(t, code, qt.Equals, interp.ExitCode(6))
	qt.Assert(t, s.ShouldExit(), qt.IsTrue)
	qt.Assert(t, s.ExitCode(), qt.Equals, interp.ExitCode(6))
}

func TestInterpretParseErrorIsDataErr(t *testing.T) {
	t.Parallel()
	s, _, stderr := newShell(t)
	code := s.Interpret("(")
	qt.Assert(t, code, qt.Equals, interp.DataErr)
	qt.Assert(t, s.ExitCode(), qt.Equals, interp.DataErr)
	qt.Assert(t, stderr.String(), qt.Not(qt.Equals), "")
}

func TestSetExitCode(t *testing.T) {
	t.Parallel()
	s, _, _ := newShell(t)
	s.SetExitCode(interp.Usage)
	qt.Assert(t, s.ExitCode(), qt.Equals, interp.Usage)
}

func TestPrettyPWDAbbreviatesHome(t *testing.T) {
	t.Parallel()
	s, _, _ := newShell(t, "HOME=/home/crsh", "PWD=/home/crsh/projects")
	qt.Assert(t, s.PrettyPWD(), qt.Equals, "~/projects")
}
