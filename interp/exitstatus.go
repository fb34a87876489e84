package interp

// ExitCode is the status a command, pipeline, or whole program
// finishes with. 0 means success; every other value follows the
// sysexits convention spec.md §6 lists.
type ExitCode uint8

const (
	Success     ExitCode = 0
	Usage       ExitCode = 64 // builtin flag/argument error
	DataErr     ExitCode = 65 // parse error
	NoInput     ExitCode = 66 // cd's destination is not a readable directory
	Unavailable ExitCode = 69 // command not found
	OsErr       ExitCode = 71 // spawn/wait failure
	IoErr       ExitCode = 74 // pipe setup failure
)
