// Package builtin implements the keyword -> factory plug-ins spec
// §4.4 calls the Builtin registry: cd, exit, and which. Each satisfies
// interp.Builtin and is constructed by an interp.BuiltinFactory that
// parses its own flags before Run ever touches shell state.
package builtin

import "github.com/ndunnett/crsh/interp"

// Registry returns the keyword -> factory table spec.md names as
// "Built-in keywords: cd, exit, which (others reserved)."
func Registry() map[string]interp.BuiltinFactory {
	return map[string]interp.BuiltinFactory{
		"cd":    BuildCD,
		"exit":  BuildExit,
		"which": BuildWhich,
	}
}

// UsageError is returned by a BuiltinFactory when its arguments don't
// parse; the execution engine prints it verbatim and sets
// exit_code = Usage (spec §4.5 step 3), matching the teacher's pattern
// of concrete error types per failure domain rather than bare strings.
type UsageError struct {
	Builtin string
	Message string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Message
}
