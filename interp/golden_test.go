package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/diff"

	qt "github.com/frankban/quicktest"

	"github.com/ndunnett/crsh/builtin"
	"github.com/ndunnett/crsh/expand"
	. "github.com/ndunnett/crsh/interp"
	"github.com/ndunnett/crsh/syntax"
)

// goldenCase is a whole-program run checked against an exact expected
// stdout, the shape the teacher's own TestRunnerRun golden suite uses
// (interp/interp_test.go in the teacher); a mismatch is reported as a
// unified diff via pkg/diff instead of two raw strings, so a failure
// is readable at a glance.
var goldenCases = []struct {
	name string
	src  string
	env  []string
	want string
}{
	{
		name: "which reports multiple builtins",
		src:  "which cd exit",
		want: "cd: shell builtin\nexit: shell builtin\n",
	},
	{
		name: "or runs on failure",
		src:  "nosuchcommand123 || which cd",
		env:  []string{"PATH="},
		want: "cd: shell builtin\n",
	},
	{
		name: "and short-circuits on failure",
		src:  "nosuchcommand123 && which cd",
		env:  []string{"PATH="},
		want: "",
	},
}

func TestGoldenPrograms(t *testing.T) {
	t.Parallel()
	for _, tc := range goldenCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f, err := syntax.NewParser().Parse(tc.src, "")
			qt.Assert(t, err, qt.IsNil)

			var stdout, stderr bytes.Buffer
			r, err := New(
				WithEnv(expand.ListEnviron(tc.env...)),
				WithIO(strings.NewReader(""), &stdout, &stderr),
				WithBuiltins(builtin.Registry()),
			)
			qt.Assert(t, err, qt.IsNil)

			r.Exec(r.IO, f.Root)

			if stdout.String() != tc.want {
				var buf bytes.Buffer
				err := diff.Text("want", "got", strings.NewReader(tc.want), strings.NewReader(stdout.String()), &buf)
				qt.Assert(t, err, qt.IsNil)
				t.Fatalf("output mismatch for %q:\n%s", tc.src, buf.String())
			}
		})
	}
}
