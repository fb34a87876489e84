// Package token defines the lexical tokens produced by the crsh lexer.
package token

// Token is the set of lexical tokens the lexer can emit.
type Token int

// The list of tokens the grammar understands. A handful of reserved
// keywords are kept for forward compatibility with control-flow
// constructs the parser accepts but does not execute (see
// syntax.Unimplemented).
const (
	ILLEGAL Token = iota
	EOF

	// Blob is a run of ordinary word characters, the interior of a
	// single- or double-quoted string, or the contents of a ${...}
	// or `...` span (mode-dependent). The contents of $(...) are
	// tokenized like any other source.
	Blob

	Tilde           // ~
	Dollar          // $
	DollarLeftBrace // ${
	DollarLeftParen // $(
	LeftBrace       // {
	RightBrace      // }
	LeftParen       // (
	RightParen      // )
	BackQuote       // `

	Ampersand  // &
	AmperAmper // &&
	Bar        // |
	BarBar     // ||
	Semicolon  // ;
	Newline    // \n
	DQuote     // "
	Less       // < (reserved; redirections are a Non-goal, see spec §1)
	Greater    // > (reserved; redirections are a Non-goal, see spec §1)

	// Reserved keywords: the lexer never emits these; the parser looks
	// a command-name Blob up in Keywords and turns a match into a
	// placeholder node that is never executed. See spec §3 "Reserved
	// variants".
	KwIf
	KwWhile
	KwUntil
	KwFor
	KwCase
	KwFunction
	KwSelect
)

var names = map[Token]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	Blob:    "blob",

	Tilde:           "~",
	Dollar:          "$",
	DollarLeftBrace: "${",
	DollarLeftParen: "$(",
	LeftBrace:       "{",
	RightBrace:      "}",
	LeftParen:       "(",
	RightParen:      ")",
	BackQuote:       "`",

	Ampersand:  "&",
	AmperAmper: "&&",
	Bar:        "|",
	BarBar:     "||",
	Semicolon:  ";",
	Newline:    "\\n",
	DQuote:     `"`,
	Less:       "<",
	Greater:    ">",

	KwIf:       "if",
	KwWhile:    "while",
	KwUntil:    "until",
	KwFor:      "for",
	KwCase:     "case",
	KwFunction: "function",
	KwSelect:   "select",
}

func (t Token) String() string { return names[t] }

// Keywords maps reserved words to their token, consulted by the parser
// when a Blob appears in command-name position.
var Keywords = map[string]Token{
	"if":       KwIf,
	"while":    KwWhile,
	"until":    KwUntil,
	"for":      KwFor,
	"case":     KwCase,
	"function": KwFunction,
	"select":   KwSelect,
}

// Pos is a byte offset into a source string. The zero Pos is invalid;
// valid positions start at 1, so the zero value of a Node can be told
// apart from "positioned at the first byte".
type Pos int

// Position is the line/column decomposition of a Pos, used only for
// diagnostics.
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based line number
	Column int // 1-based column: display width from syntax.Lexer.PositionOf, bytes from syntax.File.Position
}
