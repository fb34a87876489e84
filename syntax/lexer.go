package syntax

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/ndunnett/crsh/token"
)

// mode is an entry on the lexer's mode stack (spec §4.1 "Mode
// stack"). Subshell behaves exactly like Root for tokenization
// purposes; it exists as its own stack entry so that the matching ')'
// pops back to whatever mode enclosed the '(' or '$(' (for example a
// double-quoted string).
type mode int

const (
	modeRoot mode = iota
	modeDouble
	modeBack
	modeBraces
	modeSubshell
)

// Tok is a single lexical token: its kind, the literal text it
// carries (populated for Blob; empty otherwise), and its span.
type Tok struct {
	Kind       token.Token
	Value      string
	Start, End token.Pos
	// Spaced reports whether whitespace or a comment was skipped
	// immediately before this token. Only meaningful for tokens
	// scanned in Root/Subshell mode; the parser uses it to tell
	// adjacent word parts ("~user/$HOME") from separate words.
	Spaced bool
}

// Lexer turns a source string into a stream of Tok values. It is not
// safe for concurrent use; a fresh Lexer is created per parse.
type Lexer struct {
	src   string
	pos   int // next unread byte offset
	modes []mode
	lines []int // offsets of the start of each line, for File.Lines
}

// NewLexer returns a Lexer reading src from the beginning.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:   src,
		modes: []mode{modeRoot},
		lines: []int{0},
	}
}

// Lines returns the accumulated line-start offsets, suitable for
// File.Lines. Only complete once the whole source has been scanned.
func (l *Lexer) Lines() []int { return l.lines }

func (l *Lexer) curMode() mode { return l.modes[len(l.modes)-1] }

func (l *Lexer) pushMode(m mode) { l.modes = append(l.modes, m) }

func (l *Lexer) popMode() {
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

// ResetMode discards every open mode but Root. Called by the parser's
// panic-mode recovery once it has resynchronized on a ';', a Newline,
// EOF or (inside parentheses) a ')', so that an unclosed quote or brace from the abandoned statement
// doesn't leak into whatever comes next.
func (l *Lexer) ResetMode() {
	l.modes = l.modes[:1]
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.lines = append(l.lines, l.pos)
	}
	return b
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// isMeta reports whether b is an unquoted metacharacter, per spec
// §4.1's character class table.
func isMeta(b byte) bool {
	switch b {
	case '|', '&', ';', '(', ')', '<', '>':
		return true
	}
	return false
}

// isModeBoundary reports whether b switches lexer mode rather than
// being an ordinary word byte.
func isModeBoundary(b byte) bool {
	switch b {
	case '\'', '"', '`', '$', '~':
		return true
	}
	return false
}

func isWordByte(b byte) bool {
	return !isSpace(b) && b != '\n' && !isMeta(b) && !isModeBoundary(b)
}

// skipSpacesAndComments advances past whitespace and, when at the
// start of a word in an unquoted context, a '#' line comment. The
// newline ending a comment is never consumed here; it surfaces as its
// own Newline token.
func (l *Lexer) skipSpacesAndComments() {
	for {
		for !l.eof() && isSpace(l.peekByte()) {
			l.advance()
		}
		m := l.curMode()
		if (m == modeRoot || m == modeSubshell) && l.peekByte() == '#' {
			for !l.eof() && l.peekByte() != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

// Next scans and returns the next token from the source.
func (l *Lexer) Next() Tok {
	switch l.curMode() {
	case modeDouble:
		return l.nextDouble()
	case modeBack:
		return l.nextBack()
	case modeBraces:
		return l.nextBraces()
	default:
		return l.nextRoot()
	}
}

func (l *Lexer) nextRoot() Tok {
	before := l.pos
	l.skipSpacesAndComments()
	spaced := l.pos != before
	tok := l.nextRootTok()
	tok.Spaced = spaced
	return tok
}

func (l *Lexer) nextRootTok() Tok {
	start := token.Pos(l.pos + 1)
	if l.eof() {
		return Tok{Kind: token.EOF, Start: start, End: start}
	}

	b := l.peekByte()
	switch {
	case b == '\n':
		l.advance()
		return Tok{Kind: token.Newline, Start: start, End: token.Pos(l.pos + 1)}
	case b == ';':
		l.advance()
		return Tok{Kind: token.Semicolon, Start: start, End: token.Pos(l.pos + 1)}
	case b == '(':
		l.advance()
		l.pushMode(modeSubshell)
		return Tok{Kind: token.LeftParen, Start: start, End: token.Pos(l.pos + 1)}
	case b == ')':
		l.advance()
		if l.curMode() == modeSubshell {
			l.popMode()
		}
		return Tok{Kind: token.RightParen, Start: start, End: token.Pos(l.pos + 1)}
	case b == '<':
		l.advance()
		return Tok{Kind: token.Less, Start: start, End: token.Pos(l.pos + 1)}
	case b == '>':
		l.advance()
		return Tok{Kind: token.Greater, Start: start, End: token.Pos(l.pos + 1)}
	case b == '&':
		l.advance()
		if l.peekByte() == '&' {
			l.advance()
			return Tok{Kind: token.AmperAmper, Start: start, End: token.Pos(l.pos + 1)}
		}
		return Tok{Kind: token.Ampersand, Start: start, End: token.Pos(l.pos + 1)}
	case b == '|':
		l.advance()
		if l.peekByte() == '|' {
			l.advance()
			return Tok{Kind: token.BarBar, Start: start, End: token.Pos(l.pos + 1)}
		}
		return Tok{Kind: token.Bar, Start: start, End: token.Pos(l.pos + 1)}
	case b == '`':
		l.advance()
		l.pushMode(modeBack)
		return Tok{Kind: token.BackQuote, Start: start, End: token.Pos(l.pos + 1)}
	case b == '"':
		l.advance()
		l.pushMode(modeDouble)
		return Tok{Kind: token.DQuote, Start: start, End: token.Pos(l.pos + 1)}
	case b == '\'':
		return l.singleQuoted(start)
	case b == '$':
		return l.dollar(start)
	case b == '~':
		l.advance()
		return Tok{Kind: token.Tilde, Start: start, End: token.Pos(l.pos + 1)}
	default:
		return l.word(start)
	}
}

// singleQuoted scans a whole '...' literal as one Blob, consuming and
// discarding both quote characters, per spec §4.1's token table.
func (l *Lexer) singleQuoted(start token.Pos) Tok {
	l.advance() // opening '
	var sb strings.Builder
	for !l.eof() && l.peekByte() != '\'' {
		sb.WriteByte(l.advance())
	}
	if !l.eof() {
		l.advance() // closing '
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}
}

// dollar scans $, ${, or $( from the current '$'.
func (l *Lexer) dollar(start token.Pos) Tok {
	l.advance() // $
	switch l.peekByte() {
	case '{':
		l.advance()
		l.pushMode(modeBraces)
		return Tok{Kind: token.DollarLeftBrace, Start: start, End: token.Pos(l.pos + 1)}
	case '(':
		l.advance()
		l.pushMode(modeSubshell)
		return Tok{Kind: token.DollarLeftParen, Start: start, End: token.Pos(l.pos + 1)}
	default:
		return Tok{Kind: token.Dollar, Start: start, End: token.Pos(l.pos + 1)}
	}
}

// word scans a run of ordinary word bytes into a Blob.
func (l *Lexer) word(start token.Pos) Tok {
	var sb strings.Builder
	for !l.eof() && isWordByte(l.peekByte()) {
		sb.WriteByte(l.advance())
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}
}

// nextDouble scans inside a double-quoted string, where only $, `, \
// and " are meta (spec §4.1 DoubleQuoted mode).
func (l *Lexer) nextDouble() Tok {
	start := token.Pos(l.pos + 1)
	if l.eof() {
		return Tok{Kind: token.EOF, Start: start, End: start}
	}
	switch l.peekByte() {
	case '"':
		l.advance()
		l.popMode()
		return Tok{Kind: token.DQuote, Start: start, End: token.Pos(l.pos + 1)}
	case '$':
		return l.dollar(start)
	case '`':
		l.advance()
		l.pushMode(modeBack)
		return Tok{Kind: token.BackQuote, Start: start, End: token.Pos(l.pos + 1)}
	}
	// Backslash is recognized as a meta byte but not interpreted; see
	// spec §9 Open Question 5. A lone backslash becomes a one-byte
	// Blob so the parser can keep making progress.
	if l.peekByte() == '\\' {
		l.advance()
		return Tok{Kind: token.Blob, Value: "\\", Start: start, End: token.Pos(l.pos + 1)}
	}
	var sb strings.Builder
	for !l.eof() {
		b := l.peekByte()
		if b == '"' || b == '$' || b == '`' || b == '\\' {
			break
		}
		sb.WriteByte(l.advance())
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}
}

// nextBack scans the reserved back-quoted mode: everything up to the
// next back-quote (a backslash does not escape it) is a single
// literal Blob, matching the
// way BackQuoted is reserved rather than fully implemented (spec §4.1).
func (l *Lexer) nextBack() Tok {
	start := token.Pos(l.pos + 1)
	if l.eof() {
		return Tok{Kind: token.EOF, Start: start, End: start}
	}
	if l.peekByte() == '`' {
		l.advance()
		l.popMode()
		return Tok{Kind: token.BackQuote, Start: start, End: token.Pos(l.pos + 1)}
	}
	var sb strings.Builder
	for !l.eof() && l.peekByte() != '`' {
		sb.WriteByte(l.advance())
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}
}

// nextBraces scans the contents of ${...} as a single Blob up to the
// matching '}', per spec §4.1.
func (l *Lexer) nextBraces() Tok {
	start := token.Pos(l.pos + 1)
	if l.eof() {
		return Tok{Kind: token.EOF, Start: start, End: start}
	}
	if l.peekByte() == '}' {
		l.advance()
		l.popMode()
		return Tok{Kind: token.RightBrace, Start: start, End: token.Pos(l.pos + 1)}
	}
	var sb strings.Builder
	for !l.eof() && l.peekByte() != '}' {
		sb.WriteByte(l.advance())
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}
}

// PositionOf decodes pos into a line/column pair using the line
// offsets accumulated so far. It is only valid for offsets at or
// before the lexer's current position, which always holds for an
// offset taken from an already-produced Tok.
//
// Column counts East Asian wide/fullwidth runes (per
// golang.org/x/text/width) as two columns, so a caret printed under a
// diagnostic still lines up under the offending token on a terminal
// when the line contains wide characters.
func (l *Lexer) PositionOf(pos token.Pos) token.Position {
	offset := int(pos) - 1
	if offset < 0 {
		offset = 0
	}
	i := searchInts(l.lines, offset)
	if i < 0 {
		return token.Position{Offset: offset}
	}
	lineStart := l.lines[i]
	lineEnd := len(l.src)
	if i+1 < len(l.lines) {
		lineEnd = l.lines[i+1]
	}
	line := l.src[lineStart:lineEnd]
	byteCol := offset - lineStart
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return token.Position{
		Offset: offset,
		Line:   i + 1,
		Column: visualColumn(line, byteCol),
	}
}

func visualColumn(line string, byteCol int) int {
	col := 0
	for i, r := range line {
		if i >= byteCol {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			col += 2
		default:
			col++
		}
	}
	return col + 1
}

// TildeSuffix scans the span immediately following a Tilde token, up
// to '/', a metacharacter, a mode boundary, or whitespace, per spec
// §4.1's Tilde row. It returns ok=false if there is no suffix (e.g.
// "~/foo" or a bare "~" at end of input).
func (l *Lexer) TildeSuffix() (tok Tok, ok bool) {
	start := token.Pos(l.pos + 1)
	if l.eof() || l.peekByte() == '/' || isSpace(l.peekByte()) || l.peekByte() == '\n' ||
		isMeta(l.peekByte()) || isModeBoundary(l.peekByte()) {
		return Tok{}, false
	}
	var sb strings.Builder
	for !l.eof() {
		b := l.peekByte()
		if b == '/' || isSpace(b) || b == '\n' || isMeta(b) || isModeBoundary(b) {
			break
		}
		sb.WriteByte(l.advance())
	}
	return Tok{Kind: token.Blob, Value: sb.String(), Start: start, End: token.Pos(l.pos + 1)}, true
}
