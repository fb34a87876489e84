// Package interp implements the crsh execution engine: it walks a
// parsed syntax tree, resolves builtins and external commands, wires
// standard streams through OS pipes, and tracks the shell's
// persistent state (exit code, working directory, positional args).
package interp

import (
	"io"
	"os"
)

// IOContext is the triple of standard streams a command runs with
// (spec §3's I/O context abstraction, C2). Stdin must carry a read
// capability, Stdout/Stderr a write capability; a Null stream is
// represented by Stdin/Stdout/Stderr pointing at io.Discard or an
// always-EOF reader rather than a separate tagged variant, since Go's
// io.Reader/io.Writer interfaces already make "does nothing" trivial
// to express without a sum type.
type IOContext struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// nullReader always reports EOF, standing in for spec's Null input
// handle.
type nullReader struct{}

func (nullReader) Read([]byte) (int, error) { return 0, io.EOF }

// NullIOContext is the IOContext a command runs with when no stream
// was supplied and no ambient one applies: stdin is empty, stdout and
// stderr are discarded.
func NullIOContext() IOContext {
	return IOContext{Stdin: nullReader{}, Stdout: io.Discard, Stderr: io.Discard}
}

// InheritedIOContext wires the three streams straight to the current
// process's own stdio, the shape a freshly constructed Runner starts
// with.
func InheritedIOContext() IOContext {
	return IOContext{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// TryClone duplicates io so a command can run with its own Stdin,
// while the caller retains a (possibly still-open) copy to pass to the
// command that runs after it. For the *os.File streams a Pipeline
// builds, this is a real kernel-level dup so the parent and the
// spawned child hold independent descriptions of the same pipe end and
// can close them independently (spec §5's "correctness requires the
// parent close its copies of the write ends promptly"); for every
// other stream shape duplication cannot fail and simply copies the
// interface value.
func (io2 IOContext) TryClone() (IOContext, error) {
	stdin, err := tryCloneReader(io2.Stdin)
	if err != nil {
		return IOContext{}, err
	}
	stdout, err := tryCloneWriter(io2.Stdout)
	if err != nil {
		return IOContext{}, err
	}
	stderr, err := tryCloneWriter(io2.Stderr)
	if err != nil {
		return IOContext{}, err
	}
	return IOContext{Stdin: stdin, Stdout: stdout, Stderr: stderr}, nil
}

func tryCloneReader(r io.Reader) (io.Reader, error) {
	if f, ok := r.(*os.File); ok {
		return dupFile(f)
	}
	return r, nil
}

func tryCloneWriter(w io.Writer) (io.Writer, error) {
	if f, ok := w.(*os.File); ok {
		return dupFile(f)
	}
	return w, nil
}
