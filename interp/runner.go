package interp

import (
	"io"
	"os"
	"sync"

	"github.com/ndunnett/crsh/expand"
)

// Runner holds the shell state spec §3 calls C8: exit code,
// should_exit flag, positional args, pwd/oldpwd, and the environment
// view everything else reads from. Its exported fields mirror the
// teacher's Runner (interp/api.go) but are scoped down to what
// SPEC_FULL.md's engine actually needs.
type Runner struct {
	// Env is the environment view (C1) the whole engine reads
	// through: HomeDir/UserHomeDir for ~ expansion, Get for $NAME and
	// PATH lookup, Set for the cd builtin's PWD/OLDPWD writes.
	Env expand.WriteEnviron

	// PWD and OldPWD track the working directory and its previous
	// value, mirrored into $PWD/$OLDPWD by the cd builtin.
	PWD, OldPWD string

	// Args holds the positional parameters $1, $2, ...
	Args []string

	// mu guards exitCode and exiting: a pipeline's non-last stages run
	// concurrently (execPipeline), and any stage's exit builtin can
	// race with the main goroutine's should_exit check.
	mu sync.Mutex

	// exitCode is the status of the last command executed at the top
	// level, read/written through ExitCode/SetExitCode/Exit.
	exitCode ExitCode

	// exiting is set by the exit builtin; once true it is sticky
	// (spec §4.5's shell state machine): every subsequent Exec call
	// returns exitCode immediately without evaluating.
	exiting bool

	// IO is the ambient IOContext used when a call site doesn't
	// supply its own (e.g. the top-level Interpret call).
	IO IOContext

	// Builtins is the keyword -> factory registry (C6), populated by
	// the builtin package via the WithBuiltins option.
	Builtins map[string]BuiltinFactory
}

// BuiltinFactory is the keyword -> builtin mapping spec §4.4 calls the
// Builtin registry: look up a keyword, and if present, call it with
// the command's expanded argv to get a runnable Builtin.
type BuiltinFactory func(args []string) (Builtin, error)

// Builtin is the contract every in-process command implements (spec
// §4.4): a BuiltinFactory parses and validates arguments, Run executes
// with the given shell state and IOContext.
type Builtin interface {
	Run(r *Runner, io IOContext) ExitCode
}

// Option configures a Runner at construction time, following the
// teacher's RunnerOption pattern (interp.Env, interp.Dir, ...):
// functional options over a public-fields struct, rather than a
// constructor with a long positional parameter list.
type Option func(*Runner) error

// WithEnv sets the Runner's environment view. If env is nil, the real
// process environment is used (expand.FromOS).
func WithEnv(env expand.WriteEnviron) Option {
	return func(r *Runner) error {
		if env == nil {
			env = expand.FromOS()
		}
		r.Env = env
		return nil
	}
}

// WithArgs sets the positional parameters $1, $2, ...
func WithArgs(args ...string) Option {
	return func(r *Runner) error {
		r.Args = args
		return nil
	}
}

// WithIO sets the ambient IOContext streams.
func WithIO(in io.Reader, out, errw io.Writer) Option {
	return func(r *Runner) error {
		r.IO = IOContext{Stdin: in, Stdout: out, Stderr: errw}
		return nil
	}
}

// WithBuiltins registers the keyword -> factory table the execution
// engine consults before falling back to PATH resolution.
func WithBuiltins(builtins map[string]BuiltinFactory) Option {
	return func(r *Runner) error {
		r.Builtins = builtins
		return nil
	}
}

// New constructs a Runner, reading $PWD (falling back to the process's
// actual working directory) and best-effort restoring $OLDPWD from a
// prior process's persisted pwd history (see config.go), the way
// interp.New in the teacher falls back to sane defaults for whatever
// options weren't supplied.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		IO:       InheritedIOContext(),
		Builtins: map[string]BuiltinFactory{},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.Env == nil {
		r.Env = expand.FromOS()
	}

	if pwd, ok := r.Env.Get("PWD"); ok && pwd != "" {
		r.PWD = pwd
	} else if wd, err := os.Getwd(); err == nil {
		r.PWD = wd
		r.Env.Set("PWD", wd)
	}
	if oldpwd, ok := r.Env.Get("OLDPWD"); ok {
		r.OldPWD = oldpwd
	}
	r.loadPWDHistory()

	return r, nil
}

// ShouldExit reports whether the exit builtin has run; once true it
// never reverts (spec §4.5).
func (r *Runner) ShouldExit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exiting
}

// ExitCode returns the status of the last command executed at the top
// level.
func (r *Runner) ExitCode() ExitCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode
}

// SetExitCode overrides the last recorded exit status, part of spec
// §6's embedding interface.
func (r *Runner) SetExitCode(code ExitCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitCode = code
}

// Exit implements the exit builtin's effect on shell state: set the
// sticky should_exit flag and record code as the final status.
func (r *Runner) Exit(code ExitCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exiting = true
	r.exitCode = code
}

// Stdin, Stdout, Stderr expose the ambient IOContext streams, part of
// spec §6's embedding interface.
func (r *Runner) Stdin() io.Reader  { return r.IO.Stdin }
func (r *Runner) Stdout() io.Writer { return r.IO.Stdout }
func (r *Runner) Stderr() io.Writer { return r.IO.Stderr }

// PrettyPWD abbreviates the current directory with $HOME as "~", the
// way original_source's shell.rs computes a prompt-friendly path: a
// case-sensitive prefix match at a path boundary, nothing fancier.
func (r *Runner) PrettyPWD() string {
	home, err := r.Env.HomeDir()
	if err != nil || home == "" {
		return r.PWD
	}
	if r.PWD == home {
		return "~"
	}
	if len(r.PWD) > len(home) && r.PWD[:len(home)] == home && r.PWD[len(home)] == os.PathSeparator {
		return "~" + r.PWD[len(home):]
	}
	return r.PWD
}
