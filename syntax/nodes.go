// Package syntax implements the crsh lexer, parser, and the abstract
// syntax tree they produce.
package syntax

import "github.com/ndunnett/crsh/token"

// Pos and Position are re-exported from package token so that callers
// working with the AST never need to import token directly.
type (
	Pos      = token.Pos
	Position = token.Position
)

// Node is implemented by every AST node. Span covers the union of the
// spans of a node's children; a freshly parsed tree always satisfies
// this (see nodes_test.go's TestSpanCoversChildren).
type Node interface {
	Pos() Pos
	End() Pos
}

// File is the root of a parsed program. Root is never nil after a
// successful Parse: an empty source produces an empty *List, and a
// source with exactly one top-level statement collapses straight to
// that statement rather than wrapping it in a one-element List (spec
// §3 invariant: "a List contains >= 2 children; otherwise the
// surrounding scalar node is used directly").
type File struct {
	Root Stmt

	// Lines holds the offset of the first byte of each line, the
	// first entry always 0, used by Position to turn a Pos into a
	// line/column pair without rescanning the source.
	Lines []int
}

func (f *File) Pos() Pos {
	if f.Root == nil {
		return 0
	}
	return f.Root.Pos()
}

func (f *File) End() Pos {
	if f.Root == nil {
		return 0
	}
	return f.Root.End()
}

// Position decodes p into a line/column pair using f.Lines. Unlike
// Lexer.PositionOf, it has no access to the source text, so Column is
// a byte count; Lexer.PositionOf is used during parsing itself, where
// the source is still available, to get a display-width-correct
// column for diagnostics.
func (f *File) Position(p Pos) (pos Position) {
	offset := int(p) - 1
	pos.Offset = offset
	i := searchInts(f.Lines, offset)
	if i < 0 {
		return pos
	}
	pos.Line = i + 1
	pos.Column = offset - f.Lines[i] + 1
	return pos
}

// searchInts returns the largest index i such that a[i] <= x, or -1.
func searchInts(a []int, x int) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if a[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

type span struct {
	start, end Pos
}

func (s span) Pos() Pos { return s.start }
func (s span) End() Pos { return s.end }

// Command is a simple command: a name and zero or more argument words.
// An empty Command ("name" with no args is still valid; args may be
// nil) never appears on its own inside a List/Pipeline of size 1 — see
// collapseList in parser.go.
type Command struct {
	span
	Name *Word
	Args []*Word
}

// List is a sequence of nodes executed left to right, '`;`' or newline
// separated; its status is that of the last node. Per spec §3, a List
// always has at least two children; parser.go collapses a
// single-element list into its sole child.
type List struct {
	span
	Nodes []Stmt
}

// Pipeline connects two or more nodes with '|', chaining each node's
// stdout to the next node's stdin. Its status is that of the last
// stage (POSIX pipefail=off, see spec §4.5 and §9 Open Question 2).
type Pipeline struct {
	span
	Nodes []Stmt
}

// And is `left && right`: right only runs if left succeeded.
type And struct {
	span
	Left, Right Stmt
}

// Or is `left || right`: right only runs if left failed.
type Or struct {
	span
	Left, Right Stmt
}

// Subshell is `( node )`. Per spec §9 Open Question 3, crsh does not
// isolate `cd`/environment effects performed inside the subshell from
// its parent — a documented limitation inherited from the original
// implementation, not a bug to silently fix.
type Subshell struct {
	span
	Node Stmt
}

// Redirection is reserved grammar. The parser never builds it: a '<'
// or '>' after a command is reported as an unexpected token. The
// execution engine applies none of Redirs and simply runs Node (the
// Redirection case in interp.Runner.Exec).
type Redirection struct {
	span
	Redirs []Node
	Node   Stmt
}

// Unimplemented represents a reserved control-flow construct that the
// grammar recognizes but the engine does not execute; see spec §3 and
// §4.5. Only the keywords in token.Keywords (if/while/until/for/case/
// function/select) produce it; groups, arithmetic, conditionals,
// coproc and time are not recognized.
type Unimplemented struct {
	span
	Keyword string
}

// stmtNode restricts which Node implementations the execution engine
// switches over in interp.Runner.Exec; Word and WordPart types
// satisfy Node's Pos/End but are never standalone statements.
type stmtNode interface {
	Node
	stmt()
}

func (*Command) stmt()       {}
func (*List) stmt()          {}
func (*Pipeline) stmt()      {}
func (*And) stmt()           {}
func (*Or) stmt()            {}
func (*Subshell) stmt()      {}
func (*Redirection) stmt()   {}
func (*Unimplemented) stmt() {}

// Stmt is the type the parser's top-level production rules return.
type Stmt = stmtNode

// Word is a word as it appears in the source, before expansion: a
// sequence of parts concatenated together. A Word with a single String
// part is the common case (plain argv token); multiple parts arise
// from adjacency, e.g. `~user/$HOME`.
type Word struct {
	span
	Parts []WordPart
}

// WordPart is implemented by each kind of content a Word can be made
// of: String, ParamExp, and CmdSubst. Compound words (spec's
// Word::Compound) are simply a Word with len(Parts) > 1; there is no
// separate Compound node.
type WordPart interface {
	Node
	wordPart()
}

// String is a literal piece of text: either an unquoted Blob, the
// interior of a single-quoted string taken byte-for-byte, or a
// non-meta run inside a double-quoted string.
type String struct {
	span
	Value string
}

func (*String) wordPart() {}

// ParamExp is a parameter expansion: $NAME, ${NAME}, $N, ~, or
// ~user. See Parameter below for the four shapes it can take.
type ParamExp struct {
	span
	Param Parameter
}

func (*ParamExp) wordPart() {}

// CmdSubst is a command substitution: $(list).
type CmdSubst struct {
	span
	Node Stmt
}

func (*CmdSubst) wordPart() {}

// Parameter is the sum type backing ParamExp.
type Parameter interface {
	parameter()
}

// NumberParam is a positional parameter, $1, $2, ...
type NumberParam struct{ N int }

// NameParam is a named parameter, $NAME or ${NAME}.
type NameParam struct{ Name string }

// MyHomeParam is bare `~`: the current user's home directory.
type MyHomeParam struct{}

// OtherHomeParam is `~word`: the home directory of the user named by
// expanding Word.
type OtherHomeParam struct{ User *Word }

func (NumberParam) parameter()    {}
func (NameParam) parameter()      {}
func (MyHomeParam) parameter()    {}
func (OtherHomeParam) parameter() {}
