// crsh is a POSIX-ish shell built on top of github.com/ndunnett/crsh.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ndunnett/crsh/interp"
	"github.com/ndunnett/crsh/shell"
)

var command = flag.String("c", "", "command to be executed")

func main() {
	os.Exit(int(run()))
}

func run() interp.ExitCode {
	flag.Parse()

	s, err := shell.New(shell.WithIO(os.Stdin, os.Stdout, os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "crsh: %v\n", err)
		return interp.OsErr
	}
	defer s.Close()

	switch {
	case *command != "":
		return s.Interpret(*command)
	case flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())):
		return runInteractive(s)
	case flag.NArg() == 0:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "crsh: %v\n", err)
			return interp.IoErr
		}
		return s.Interpret(string(src))
	default:
		var code interp.ExitCode
		for _, path := range flag.Args() {
			code = runPath(s, path)
			if s.ShouldExit() {
				break
			}
		}
		return code
	}
}

func runPath(s *shell.Shell, path string) interp.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crsh: %v\n", err)
		return interp.NoInput
	}
	return s.Interpret(string(src))
}

// runInteractive is deliberately minimal: one line in, one program
// run, prompt printed again. Line editing, history, and completion
// are out of scope.
func runInteractive(s *shell.Shell) interp.ExitCode {
	scanner := bufio.NewScanner(s.Stdin())
	fmt.Fprintf(s.Stdout(), "%s $ ", s.PrettyPWD())
	for scanner.Scan() {
		if s.ShouldExit() {
			break
		}
		s.Interpret(scanner.Text())
		if s.ShouldExit() {
			break
		}
		fmt.Fprintf(s.Stdout(), "%s $ ", s.PrettyPWD())
	}
	return s.ExitCode()
}
