package builtin

import (
	"strconv"

	"github.com/ndunnett/crsh/interp"
)

// Exit implements spec §4.4's `exit [n]`: parse an optional integer
// (default 0), set shell.should_exit, and return the parsed code.
type Exit struct {
	Code interp.ExitCode
}

// BuildExit takes no flags; at most one argument, the exit code.
func BuildExit(args []string) (interp.Builtin, error) {
	if len(args) > 1 {
		return nil, &UsageError{Builtin: "exit", Message: "exit: too many arguments"}
	}
	if len(args) == 0 {
		return &Exit{Code: interp.Success}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, &UsageError{Builtin: "exit", Message: "exit: numeric argument required"}
	}
	return &Exit{Code: interp.ExitCode(uint8(n))}, nil
}

func (e *Exit) Run(r *interp.Runner, io interp.IOContext) interp.ExitCode {
	r.Exit(e.Code)
	return e.Code
}
