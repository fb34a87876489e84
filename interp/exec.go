package interp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/ndunnett/crsh/expand"
	"github.com/ndunnett/crsh/syntax"
)

// Exec walks node per spec §4.5, routing stdio through io and
// returning the resulting ExitCode. Every failure already has a
// defined sysexits code (spec §6), so Exec never returns a Go error:
// OS-level failures are reported to io.Stderr and folded into the
// appropriate ExitCode instead.
func (r *Runner) Exec(io IOContext, node syntax.Stmt) ExitCode {
	if r.ShouldExit() {
		return r.ExitCode()
	}
	switch n := node.(type) {
	case *syntax.Command:
		return r.execCommand(io, n)
	case *syntax.List:
		return r.execList(io, n)
	case *syntax.Pipeline:
		return r.execPipeline(io, n)
	case *syntax.And:
		return r.execAndOr(io, n.Left, n.Right, true)
	case *syntax.Or:
		return r.execAndOr(io, n.Left, n.Right, false)
	case *syntax.Subshell:
		return r.execSubshell(io, n)
	case *syntax.Redirection:
		// v1: no redirections are applied (spec §4.5); just run Node.
		return r.Exec(io, n.Node)
	case *syntax.Unimplemented:
		fmt.Fprintf(io.Stderr, "crsh: %s: not implemented\n", n.Keyword)
		return Unavailable
	default:
		fmt.Fprintf(io.Stderr, "crsh: unhandled node %T\n", node)
		return Unavailable
	}
}

func (r *Runner) execList(io IOContext, l *syntax.List) ExitCode {
	var code ExitCode
	for _, stmt := range l.Nodes {
		code = r.Exec(io, stmt)
		if r.ShouldExit() {
			break
		}
	}
	return code
}

// execAndOr evaluates left, then right only if right should run given
// left's result and isAnd (right runs on success for And, on failure
// for Or). Each side gets an independent clone of ctx (spec §4.5).
func (r *Runner) execAndOr(io IOContext, left, right syntax.Stmt, isAnd bool) ExitCode {
	leftIO, err := io.TryClone()
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return IoErr
	}
	leftResult := r.Exec(leftIO, left)
	if r.ShouldExit() {
		return leftResult
	}
	runRight := leftResult == Success
	if !isAnd {
		runRight = !runRight
	}
	if !runRight {
		return leftResult
	}
	rightIO, err := io.TryClone()
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return IoErr
	}
	return r.Exec(rightIO, right)
}

func (r *Runner) execSubshell(io IOContext, s *syntax.Subshell) ExitCode {
	cloned, err := io.TryClone()
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return IoErr
	}
	// Environment mutations (e.g. cd) performed inside a subshell are
	// intentionally not isolated from the parent in v1; see
	// SPEC_FULL.md's Open Questions resolution 3.
	return r.Exec(cloned, s.Node)
}

// execPipeline runs an N>=2 stage pipeline (spec §4.5): N-1 OS pipes
// connect consecutive stages' stdout/stdin, the outer ctx supplies the
// first stage's stdin and the last stage's stdout, and stderr is
// shared by every stage. Non-last stages run concurrently via an
// errgroup (mirroring the teacher's use of errgroup.Group for
// background jobs); the caller blocks on the rightmost stage directly
// so its exit code is the pipeline's observable result.
func (r *Runner) execPipeline(io IOContext, p *syntax.Pipeline) ExitCode {
	n := len(p.Nodes)
	if n < 2 {
		return r.Exec(io, p.Nodes[0])
	}

	readers := make([]*os.File, n-1)
	writers := make([]*os.File, n-1)
	for i := 0; i < n-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(io.Stderr, "crsh: pipe: %v\n", err)
			return IoErr
		}
		readers[i], writers[i] = pr, pw
	}

	stageIO := func(i int) IOContext {
		s := IOContext{Stderr: io.Stderr}
		if i == 0 {
			s.Stdin = io.Stdin
		} else {
			s.Stdin = readers[i-1]
		}
		if i == n-1 {
			s.Stdout = io.Stdout
		} else {
			s.Stdout = writers[i]
		}
		return s
	}

	var g errgroup.Group
	results := make([]ExitCode, n)
	for i := 0; i < n-1; i++ {
		i, node := i, p.Nodes[i]
		s := stageIO(i)
		g.Go(func() error {
			results[i] = r.Exec(s, node)
			return nil
		})
	}
	results[n-1] = r.Exec(stageIO(n-1), p.Nodes[n-1])
	g.Wait()

	return results[n-1]
}

func (r *Runner) expandConfig() *expand.Config {
	return &expand.Config{
		Env:      r.Env,
		Args:     r.Args,
		CmdSubst: r.captureStdout,
	}
}

// captureStdout runs node with stdout captured into a buffer, for
// $(...) command substitution (spec §4.3). The trailing newline is
// returned verbatim, not stripped: see SPEC_FULL.md's Open Questions
// resolution 1.
func (r *Runner) captureStdout(node syntax.Stmt) (string, error) {
	var buf bytes.Buffer
	sub := IOContext{Stdin: nullReader{}, Stdout: &buf, Stderr: r.IO.Stderr}
	r.Exec(sub, node)
	return buf.String(), nil
}

func (r *Runner) execCommand(io IOContext, n *syntax.Command) ExitCode {
	cfg := r.expandConfig()
	key, err := expand.Word(cfg, n.Name)
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return OsErr
	}
	argv, err := expand.Fields(cfg, n.Args)
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return OsErr
	}

	cmdIO, err := io.TryClone()
	if err != nil {
		fmt.Fprintf(io.Stderr, "crsh: %v\n", err)
		return IoErr
	}
	// This stage now holds its own copies; drop the ones it was
	// handed so a sibling pipeline stage's EOF isn't held open by a
	// reference this command never uses again (spec §4.5 step 6).
	closeIfPipe(io.Stdin)
	closeIfPipe(io.Stdout)
	defer closeIfPipe(cmdIO.Stdin)
	defer closeIfPipe(cmdIO.Stdout)

	if factory, ok := r.Builtins[key]; ok {
		b, err := factory(argv)
		if err != nil {
			fmt.Fprintf(cmdIO.Stderr, "crsh: %s: %v\n", key, err)
			return Usage
		}
		return b.Run(r, cmdIO)
	}

	path, lookErr := LookPath(r.Env, key)
	if lookErr != nil {
		if code, ok := runCoreutil(r, cmdIO, key, argv); ok {
			return code
		}
		fmt.Fprintf(cmdIO.Stderr, "crsh: command not found: %s\n", key)
		return Unavailable
	}

	cmd := exec.Command(path, argv...)
	cmd.Dir = r.PWD
	cmd.Env = environSlice(r.Env)
	cmd.Stdin = cmdIO.Stdin
	cmd.Stdout = cmdIO.Stdout
	cmd.Stderr = cmdIO.Stderr
	setpgid(cmd)

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(cmdIO.Stderr, "crsh: %s: %v\n", key, err)
		return Unavailable
	}
	// The child now holds its own descriptors; drop ours immediately
	// so the pipeline's next reader sees EOF once every writer with a
	// live copy (the children, not us) has closed theirs.
	closeIfPipe(cmdIO.Stdin)
	closeIfPipe(cmdIO.Stdout)

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return ExitCode(exitErr.ExitCode())
		}
		fmt.Fprintf(cmdIO.Stderr, "crsh: %s: %v\n", key, err)
		return OsErr
	}
	return Success
}

// closeIfPipe closes f if it is an *os.File other than the process's
// own inherited stdio, which must never be closed out from under
// sibling commands that still read or write it.
func closeIfPipe(x any) {
	f, ok := x.(*os.File)
	if !ok || f == nil {
		return
	}
	if f == os.Stdin || f == os.Stdout || f == os.Stderr {
		return
	}
	_ = f.Close()
}

func environSlice(env expand.Environ) []string {
	var out []string
	env.Each(func(name, value string) bool {
		out = append(out, name+"="+value)
		return true
	})
	return out
}
