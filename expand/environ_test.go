package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestListEnvironGetEach(t *testing.T) {
	t.Parallel()
	env := ListEnviron("A=b", "invalid", "c=", "A=overwritten")

	v, ok := env.Get("A")
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, "overwritten")

	v, ok = env.Get("c")
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, "")

	_, ok = env.Get("missing")
	qt.Assert(t, ok, qt.IsFalse)

	var seen []string
	env.Each(func(name, value string) bool {
		seen = append(seen, name+"="+value)
		return true
	})
	qt.Assert(t, seen, qt.DeepEquals, []string{"A=overwritten", "c="})
}

func TestListEnvironEachStopsEarly(t *testing.T) {
	t.Parallel()
	env := ListEnviron("A=1", "B=2", "C=3")
	var seen []string
	env.Each(func(name, value string) bool {
		seen = append(seen, name)
		return name != "B"
	})
	qt.Assert(t, seen, qt.DeepEquals, []string{"A", "B"})
}

func TestListEnvironHomeDirUsesListHOME(t *testing.T) {
	t.Parallel()
	env := ListEnviron("HOME=/srv/crsh")
	home, err := env.HomeDir()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, home, qt.Equals, "/srv/crsh")
}

func TestListEnvironSet(t *testing.T) {
	t.Parallel()
	env := ListEnviron("A=1")
	qt.Assert(t, env.Set("A", "2"), qt.IsNil)
	qt.Assert(t, env.Set("B", "new"), qt.IsNil)

	v, _ := env.Get("A")
	qt.Assert(t, v, qt.Equals, "2")
	v, _ = env.Get("B")
	qt.Assert(t, v, qt.Equals, "new")
}
