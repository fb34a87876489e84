package interp

import (
	"os"
	"path/filepath"
	"strings"

	maybeio "github.com/google/renameio/v2/maybe"
)

// ConfigFilepath resolves $XDG_CONFIG_HOME/crsh/name, falling back to
// $HOME/.config/crsh/name (spec §6's embedding interface,
// Shell::config_filepath).
func (r *Runner) ConfigFilepath(name string) string {
	if dir, ok := r.Env.Get("XDG_CONFIG_HOME"); ok && dir != "" {
		return filepath.Join(dir, "crsh", name)
	}
	home, _ := r.Env.Get("HOME")
	return filepath.Join(home, ".config", "crsh", name)
}

const pwdHistoryFile = "pwd_history"

// loadPWDHistory best-effort restores OldPWD across process restarts
// when the environment doesn't already supply $OLDPWD: cd - normally
// relies on in-process shell state (spec §3), which does not survive
// the embedding driver exiting, so Runner persists the pwd/old_pwd
// pair itself (see SPEC_FULL.md's Configuration section). A missing or
// malformed file is silently ignored; this is optional ambient
// behavior, not a correctness requirement.
func (r *Runner) loadPWDHistory() {
	if oldpwd, ok := r.Env.Get("OLDPWD"); ok && oldpwd != "" {
		return
	}
	data, err := os.ReadFile(r.ConfigFilepath(pwdHistoryFile))
	if err != nil {
		return
	}
	pwd, oldpwd, ok := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if !ok {
		return
	}
	r.OldPWD = oldpwd
	if r.PWD == "" {
		r.PWD = pwd
	}
}

// savePWDHistory atomically writes the current pwd/old_pwd pair using
// renameio's maybe.WriteFile, the same helper cmd/shfmt uses in the
// teacher to avoid truncating a file on a write interrupted midway.
func (r *Runner) savePWDHistory() error {
	path := r.ConfigFilepath(pwdHistoryFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data := []byte(r.PWD + "\n" + r.OldPWD + "\n")
	return maybeio.WriteFile(path, data, 0o644)
}

// Close persists the pwd/old_pwd pair so a future Runner.New in the
// same embedding driver can seed $OLDPWD for cd -. An embedder that
// never calls Close simply doesn't get cross-process cd -.
func (r *Runner) Close() error {
	return r.savePWDHistory()
}
