package syntax

import (
	"fmt"
	"strconv"

	"github.com/ndunnett/crsh/token"
)

// Parser turns source text into a *File, or a non-empty ErrorList.
// A Parser value carries no state between calls to Parse and so may
// be reused and shared across goroutines.
type Parser struct{}

// NewParser returns a ready-to-use Parser. It takes no options today;
// the constructor exists so that callers follow the same
// New(opts...) shape as interp.New, and so future
// options (e.g. a dialect switch) don't break callers.
func NewParser() *Parser { return &Parser{} }

// Parse parses src as a single program. name is used only to prefix
// diagnostics (empty for a `-c` string). Per spec §8 property 1, the
// result is either a non-nil *File with a nil error, or a nil *File
// with a non-empty ErrorList — never both, never neither.
func (pr *Parser) Parse(src, name string) (*File, error) {
	p := &parser{lex: NewLexer(src), name: name}
	p.next()
	root := p.list(false)
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return &File{Root: root, Lines: p.lex.Lines()}, nil
}

// parser holds the mutable state of a single Parse call.
type parser struct {
	lex  *Lexer
	name string
	tok  Tok
	errs ErrorList
}

func (p *parser) next() { p.tok = p.lex.Next() }

func (p *parser) errorAt(start, end token.Pos, kind ErrorKind, format string, a ...any) {
	p.errs = append(p.errs, &ParseError{
		Kind:     kind,
		Position: p.lex.PositionOf(start),
		Filename: p.name,
		Text:     fmt.Sprintf(format, a...),
	})
	_ = end
}

// atSync reports whether the current token is a statement separator
// that panic-mode recovery (or an Unimplemented placeholder) should
// stop at without consuming, at paren depth zero.
func (p *parser) atSync(stopParen bool) bool {
	switch p.tok.Kind {
	case token.EOF, token.Semicolon, token.Newline:
		return true
	case token.RightParen:
		return stopParen
	}
	return false
}

// recover implements the panic-mode recovery described in spec §4.2:
// skip tokens until the next synchronization point, then reset the
// lexer's mode stack so a stray open quote/brace doesn't leak into
// whatever is parsed next.
func (p *parser) recover(stopParen bool) {
	depth := 0
	for !p.atSync(stopParen) || depth > 0 {
		if p.tok.Kind == token.EOF {
			break
		}
		switch p.tok.Kind {
		case token.LeftParen, token.DollarLeftParen:
			depth++
		case token.RightParen:
			if depth > 0 {
				depth--
			}
		}
		p.next()
	}
	p.lex.ResetMode()
}

// list parses `pipeline (';'|'\n') pipeline ...`, collapsing to a
// single child when there is exactly one (spec §3 invariant). When
// stopParen is true, it stops before an unmatched ')' instead of
// treating EOF as the only terminator, for subshells and command
// substitutions.
func (p *parser) list(stopParen bool) Stmt {
	start := p.tok.Start
	var nodes []Stmt
	for {
		for p.tok.Kind == token.Semicolon || p.tok.Kind == token.Newline {
			p.next()
		}
		if p.tok.Kind == token.EOF || (stopParen && p.tok.Kind == token.RightParen) {
			break
		}
		before := len(p.errs)
		node, ok := p.pipeline()
		if !ok {
			if len(p.errs) == before {
				p.errorAt(p.tok.Start, p.tok.End, UnexpectedTokens, "unexpected token %s", p.tok.Kind)
			}
			p.recover(stopParen)
			continue
		}
		nodes = append(nodes, node)
		switch {
		case p.tok.Kind == token.Semicolon, p.tok.Kind == token.Newline:
			continue
		case p.tok.Kind == token.EOF:
			continue
		case stopParen && p.tok.Kind == token.RightParen:
			continue
		default:
			p.errorAt(p.tok.Start, p.tok.End, UnexpectedTokens,
				"statements must be separated by ';', a newline, or end of input; found %s", p.tok.Kind)
			p.recover(stopParen)
		}
	}
	end := p.tok.Start
	if n := len(nodes); n > 0 {
		end = nodes[n-1].End()
	}
	return collapseList(nodes, span{start, end})
}

func collapseList(nodes []Stmt, sp span) Stmt {
	switch len(nodes) {
	case 0:
		return &List{span: sp}
	case 1:
		return nodes[0]
	default:
		return &List{span: sp, Nodes: nodes}
	}
}

// pipeline ::= logical_or ('|' logical_or)*
func (p *parser) pipeline() (Stmt, bool) {
	first, ok := p.logicalOr()
	if !ok {
		return nil, false
	}
	nodes := []Stmt{first}
	for p.tok.Kind == token.Bar {
		p.next()
		n, ok := p.logicalOr()
		if !ok {
			p.errorAt(p.tok.Start, p.tok.End, UnexpectedTokens, "expected a command after '|'")
			return nil, false
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 1 {
		return nodes[0], true
	}
	return &Pipeline{span: span{first.Pos(), nodes[len(nodes)-1].End()}, Nodes: nodes}, true
}

// logical_or ::= logical_and ('||' logical_and)*
func (p *parser) logicalOr() (Stmt, bool) {
	left, ok := p.logicalAnd()
	if !ok {
		return nil, false
	}
	for p.tok.Kind == token.BarBar {
		p.next()
		right, ok := p.logicalAnd()
		if !ok {
			p.errorAt(p.tok.Start, p.tok.End, UnexpectedTokens, "expected a command after '||'")
			return nil, false
		}
		left = &Or{span: span{left.Pos(), right.End()}, Left: left, Right: right}
	}
	return left, true
}

// logical_and ::= command ('&&' command)*
func (p *parser) logicalAnd() (Stmt, bool) {
	left, ok := p.command()
	if !ok {
		return nil, false
	}
	for p.tok.Kind == token.AmperAmper {
		p.next()
		right, ok := p.command()
		if !ok {
			p.errorAt(p.tok.Start, p.tok.End, UnexpectedTokens, "expected a command after '&&'")
			return nil, false
		}
		left = &And{span: span{left.Pos(), right.End()}, Left: left, Right: right}
	}
	return left, true
}

// command ::= word+ | '(' list ')'
// A reserved keyword (if/while/until/for/case/function/select) in
// command-name position parses as a placeholder Unimplemented node
// instead of a UnexpectedTokens error: spec §3 reserves these
// variants so the grammar can accept them, and §4.5 makes execution
// (not parsing) the place that reports them as unsupported.
func (p *parser) command() (Stmt, bool) {
	if p.tok.Kind == token.LeftParen {
		start := p.tok.Start
		p.next()
		inner := p.list(true)
		end := p.tok.End
		if p.tok.Kind == token.RightParen {
			p.next()
		} else {
			p.errorAt(start, end, UnmatchedParenthesis, "unmatched '('")
			return &Subshell{span: span{start, end}, Node: inner}, true
		}
		return &Subshell{span: span{start, end}, Node: inner}, true
	}

	if p.tok.Kind == token.Blob {
		if _, isKeyword := token.Keywords[p.tok.Value]; isKeyword {
			start := p.tok.Start
			keyword := p.tok.Value
			end := p.tok.End
			p.next()
			end = p.skipUnimplementedBody(end)
			return &Unimplemented{span: span{start, end}, Keyword: keyword}, true
		}
	}

	first, ok := p.word()
	if !ok {
		return nil, false
	}
	cmd := &Command{span: span{first.Pos(), first.End()}, Name: first}
	for {
		w, ok := p.word()
		if !ok {
			break
		}
		cmd.Args = append(cmd.Args, w)
		cmd.span.end = w.End()
	}
	return cmd, true
}

// skipUnimplementedBody consumes the rest of a reserved construct so
// that a statement we'll never execute doesn't leave the parser
// desynchronized; it tracks paren depth so a nested subshell inside
// the unimplemented body isn't mistaken for the end of an outer one.
func (p *parser) skipUnimplementedBody(end token.Pos) token.Pos {
	depth := 0
	for {
		switch p.tok.Kind {
		case token.EOF:
			return end
		case token.Semicolon, token.Newline:
			if depth == 0 {
				return end
			}
		case token.LeftParen, token.DollarLeftParen:
			depth++
		case token.RightParen:
			if depth == 0 {
				return end
			}
			depth--
		}
		end = p.tok.End
		p.next()
	}
}

// word parses one Word: a word-part, followed by any further parts
// immediately adjacent (no intervening whitespace), merged into a
// single compound Word (spec §3 Word::Compound).
func (p *parser) word() (*Word, bool) {
	var parts []WordPart
	if !p.wordUnit(&parts) {
		return nil, false
	}
	for !p.tok.Spaced && p.wordUnit(&parts) {
	}
	return &Word{span: span{parts[0].Pos(), parts[len(parts)-1].End()}, Parts: parts}, true
}

// wordUnit parses a single word-part production and appends it (or,
// for a double-quoted string, the several parts found inside it) to
// parts. It reports whether anything was consumed.
func (p *parser) wordUnit(parts *[]WordPart) bool {
	switch p.tok.Kind {
	case token.Blob:
		*parts = append(*parts, &String{span: span{p.tok.Start, p.tok.End}, Value: p.tok.Value})
		p.next()
		return true

	case token.Tilde:
		start, tildeEnd := p.tok.Start, p.tok.End
		suf, ok := p.lex.TildeSuffix()
		var pe *ParamExp
		if ok {
			userWord := &Word{span: span{suf.Start, suf.End}, Parts: []WordPart{
				&String{span: span{suf.Start, suf.End}, Value: suf.Value},
			}}
			pe = &ParamExp{span: span{start, suf.End}, Param: OtherHomeParam{User: userWord}}
		} else {
			pe = &ParamExp{span: span{start, tildeEnd}, Param: MyHomeParam{}}
		}
		*parts = append(*parts, pe)
		p.next()
		return true

	case token.Dollar:
		start := p.tok.Start
		p.next()
		*parts = append(*parts, p.paramAfterDollar(start))
		return true

	case token.DollarLeftBrace:
		start := p.tok.Start
		p.next()
		*parts = append(*parts, p.paramInBraces(start))
		return true

	case token.DollarLeftParen:
		start := p.tok.Start
		p.next()
		node := p.list(true)
		end := p.tok.End
		if p.tok.Kind == token.RightParen {
			p.next()
		} else {
			p.errorAt(start, end, UnmatchedParenthesis, "unmatched '$('")
		}
		*parts = append(*parts, &CmdSubst{span: span{start, end}, Node: node})
		return true

	case token.DQuote:
		start := p.tok.Start
		p.next()
		for p.tok.Kind != token.DQuote && p.tok.Kind != token.EOF {
			if !p.wordUnit(parts) {
				// nextDouble always yields Blob for anything it
				// doesn't special-case, so this only triggers at EOF.
				break
			}
		}
		end := p.tok.End
		if p.tok.Kind == token.DQuote {
			p.next()
		} else {
			p.errorAt(start, end, IncompleteParse, "unterminated double-quoted string")
		}
		return true

	default:
		return false
	}
}

func (p *parser) paramAfterDollar(start token.Pos) WordPart {
	if p.tok.Kind != token.Blob {
		p.errorAt(start, p.tok.Start, InvalidName, "expected a parameter name after '$'")
		return &ParamExp{span: span{start, p.tok.Start}, Param: NameParam{}}
	}
	name, end := p.tok.Value, p.tok.End
	p.next()
	return p.buildParam(start, end, name)
}

func (p *parser) paramInBraces(start token.Pos) WordPart {
	var name string
	end := start
	if p.tok.Kind == token.Blob {
		name, end = p.tok.Value, p.tok.End
		p.next()
	}
	if p.tok.Kind == token.RightBrace {
		end = p.tok.End
		p.next()
	} else {
		p.errorAt(start, end, UnmatchedBrace, "unmatched '${'")
	}
	return p.buildParam(start, end, name)
}

func (p *parser) buildParam(start, end token.Pos, name string) WordPart {
	if name == "" {
		p.errorAt(start, end, InvalidName, "empty parameter name")
		return &ParamExp{span: span{start, end}, Param: NameParam{}}
	}
	if isAllDigits(name) {
		n, _ := strconv.Atoi(name)
		return &ParamExp{span: span{start, end}, Param: NumberParam{N: n}}
	}
	if !isValidName(name) {
		p.errorAt(start, end, InvalidName, "invalid parameter name %q", name)
	}
	return &ParamExp{span: span{start, end}, Param: NameParam{Name: name}}
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		isLetter := (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
		isDigit := b >= '0' && b <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}
