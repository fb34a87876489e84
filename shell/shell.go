// Package shell is the embedding interface spec §6 describes: the
// thin surface a driver (cmd/crsh, or any other embedder) calls
// instead of reaching into interp and syntax directly.
package shell

import (
	"io"

	"github.com/ndunnett/crsh/builtin"
	"github.com/ndunnett/crsh/expand"
	"github.com/ndunnett/crsh/interp"
	"github.com/ndunnett/crsh/syntax"
)

// Shell wraps an *interp.Runner with the parse step folded in, so an
// embedder only ever hands it source text.
type Shell struct {
	runner *interp.Runner
	parser *syntax.Parser
}

// Option configures a Shell at construction; each wraps an
// interp.Option of the same name.
type Option func(*interp.Runner) error

func WithEnv(env expand.WriteEnviron) Option { return Option(interp.WithEnv(env)) }
func WithArgs(args ...string) Option         { return Option(interp.WithArgs(args...)) }
func WithIO(in io.Reader, out, errw io.Writer) Option {
	return Option(interp.WithIO(in, out, errw))
}

// New builds a Shell: it reads the environment, restores any saved
// pwd/oldpwd history (spec's config_filepath persistence), and
// registers the builtin.Registry() table (cd, exit, which).
func New(opts ...Option) (*Shell, error) {
	ropts := make([]interp.Option, 0, len(opts)+1)
	for _, o := range opts {
		ropts = append(ropts, interp.Option(o))
	}
	ropts = append(ropts, interp.WithBuiltins(builtin.Registry()))
	r, err := interp.New(ropts...)
	if err != nil {
		return nil, err
	}
	return &Shell{runner: r, parser: syntax.NewParser()}, nil
}

// Interpret parses src as one program and executes it (spec §6's
// interpret): a parse failure is reported to Stderr and folded into
// ExitCode(interp.DataErr), matching spec §7's Parse error handling —
// the engine is never invoked on a program that failed to parse.
func (s *Shell) Interpret(src string) interp.ExitCode {
	file, err := s.parser.Parse(src, "")
	if err != nil {
		s.runner.SetExitCode(interp.DataErr)
		if _, werr := writeParseError(s.runner.Stderr(), err); werr != nil {
			return interp.IoErr
		}
		return interp.DataErr
	}
	code := s.runner.Exec(s.runner.IO, file.Root)
	s.runner.SetExitCode(code)
	return code
}

func writeParseError(w io.Writer, err error) (int, error) {
	return io.WriteString(w, "crsh: "+err.Error()+"\n")
}

func (s *Shell) ShouldExit() bool                  { return s.runner.ShouldExit() }
func (s *Shell) ExitCode() interp.ExitCode         { return s.runner.ExitCode() }
func (s *Shell) SetExitCode(code interp.ExitCode)  { s.runner.SetExitCode(code) }
func (s *Shell) Stdin() io.Reader                  { return s.runner.Stdin() }
func (s *Shell) Stdout() io.Writer                 { return s.runner.Stdout() }
func (s *Shell) Stderr() io.Writer                 { return s.runner.Stderr() }
func (s *Shell) ConfigFilepath(name string) string { return s.runner.ConfigFilepath(name) }
func (s *Shell) PrettyPWD() string                 { return s.runner.PrettyPWD() }

// Close persists pwd/oldpwd history for a future process's cd - to
// pick up; see interp.Runner.Close.
func (s *Shell) Close() error { return s.runner.Close() }
