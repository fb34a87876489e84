package expand

import (
	"fmt"
	"strings"

	"github.com/ndunnett/crsh/syntax"
)

// Config bundles the capabilities Word needs to turn a parsed
// syntax.Word into the literal string that ends up in argv (spec
// §4.3). It is built fresh per command by interp.Runner from whatever
// environment and positional parameters are in scope at that point.
type Config struct {
	// Env resolves $NAME, ~ and ~user.
	Env Environ

	// Args holds $1, $2, ... The grammar accepts any digit run, so
	// $0 and indexes past len(Args) do reach Word; it treats anything
	// out of [1, len(Args)] as unset, matching $NAME's unset-is-empty
	// behaviour.
	Args []string

	// CmdSubst runs the Stmt inside a $(...) and returns its captured
	// stdout, verbatim, including any trailing newline (spec §9 Open
	// Question 1: crsh does not strip trailing newlines the way POSIX
	// command substitution does). Nil means command substitution
	// always expands to "", which is only useful for tests that don't
	// exercise it.
	CmdSubst func(node syntax.Stmt) (string, error)
}

// Word expands w into the single string that occupies its slot in
// argv. A Word with multiple Parts (an unquoted adjacency like
// ~user/$HOME, or a double-quoted string with an embedded $NAME) is
// the concatenation of each part's expansion, in source order.
func Word(cfg *Config, w *syntax.Word) (string, error) {
	if len(w.Parts) == 1 {
		return wordPart(cfg, w.Parts[0])
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		s, err := wordPart(cfg, part)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Fields expands each word in words in order, the shape a Command's
// Name+Args take once turned into argv.
func Fields(cfg *Config, words []*syntax.Word) ([]string, error) {
	out := make([]string, len(words))
	for i, w := range words {
		s, err := Word(cfg, w)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func wordPart(cfg *Config, part syntax.WordPart) (string, error) {
	switch p := part.(type) {
	case *syntax.String:
		return p.Value, nil
	case *syntax.ParamExp:
		return parameter(cfg, p.Param)
	case *syntax.CmdSubst:
		if cfg.CmdSubst == nil {
			return "", nil
		}
		return cfg.CmdSubst(p.Node)
	default:
		return "", fmt.Errorf("expand: unhandled word part %T", part)
	}
}

func parameter(cfg *Config, param syntax.Parameter) (string, error) {
	switch pm := param.(type) {
	case syntax.MyHomeParam:
		home, err := cfg.Env.HomeDir()
		if err != nil {
			return "", nil
		}
		return home, nil

	case syntax.OtherHomeParam:
		name, err := Word(cfg, pm.User)
		if err != nil {
			return "", err
		}
		home, err := cfg.Env.UserHomeDir(name)
		if err != nil {
			// Unknown user: spec §4.3 says this expands to "", not
			// an error.
			return "", nil
		}
		return home, nil

	case syntax.NameParam:
		value, _ := cfg.Env.Get(pm.Name)
		return value, nil

	case syntax.NumberParam:
		if pm.N >= 1 && pm.N <= len(cfg.Args) {
			return cfg.Args[pm.N-1], nil
		}
		return "", nil

	default:
		return "", fmt.Errorf("expand: unhandled parameter %T", param)
	}
}
