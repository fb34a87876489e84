package builtin

import (
	"fmt"

	"github.com/ndunnett/crsh/interp"
)

// Which implements spec §4.4's which, generalized to N keywords
// (SPEC_FULL.md's Supplemented Features): one resolution line per
// argument. Always Ok, per spec §4.4.
type Which struct {
	Keywords []string
}

// BuildWhich requires at least one keyword; no flags.
func BuildWhich(args []string) (interp.Builtin, error) {
	if len(args) == 0 {
		return nil, &UsageError{Builtin: "which", Message: "which: missing keyword"}
	}
	return &Which{Keywords: args}, nil
}

func (w *Which) Run(r *interp.Runner, io interp.IOContext) interp.ExitCode {
	for _, keyword := range w.Keywords {
		if _, ok := r.Builtins[keyword]; ok {
			fmt.Fprintf(io.Stdout, "%s: shell builtin\n", keyword)
			continue
		}
		if path, err := interp.LookPath(r.Env, keyword); err == nil {
			fmt.Fprintln(io.Stdout, path)
			continue
		}
		fmt.Fprintf(io.Stdout, "%s not found\n", keyword)
	}
	return interp.Success
}
