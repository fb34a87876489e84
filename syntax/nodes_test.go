package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFilePositionDecodesLineColumn(t *testing.T) {
	t.Parallel()
	f, err := NewParser().Parse("a b\nc d\n", "")
	qt.Assert(t, err, qt.IsNil)

	pos := f.Position(f.Root.Pos())
	qt.Assert(t, pos.Line, qt.Equals, 1)
	qt.Assert(t, pos.Column, qt.Equals, 1)
}

func TestFilePositionSecondLine(t *testing.T) {
	t.Parallel()
	f, err := NewParser().Parse("one\ntwo\n", "")
	qt.Assert(t, err, qt.IsNil)

	list, ok := f.Root.(*List)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, len(list.Nodes), qt.Equals, 2)

	pos := f.Position(list.Nodes[1].Pos())
	qt.Assert(t, pos.Line, qt.Equals, 2)
	qt.Assert(t, pos.Column, qt.Equals, 1)
}

func TestSpanCoversChildren(t *testing.T) {
	t.Parallel()
	f, err := NewParser().Parse("echo one two", "")
	qt.Assert(t, err, qt.IsNil)

	cmd, ok := f.Root.(*Command)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, int(cmd.Pos()), qt.Equals, int(cmd.Name.Pos()))
	last := cmd.Args[len(cmd.Args)-1]
	qt.Assert(t, int(cmd.End()), qt.Equals, int(last.End()))
}

func TestEmptyFileHasEmptyList(t *testing.T) {
	t.Parallel()
	f, err := NewParser().Parse("", "")
	qt.Assert(t, err, qt.IsNil)
	list, ok := f.Root.(*List)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, len(list.Nodes), qt.Equals, 0)
}
