// Package expand resolves a parsed syntax.Word into the literal
// string that ends up in argv (spec §4.3).
package expand

import (
	"os"
	"os/user"
	"strings"
)

// Environ is the capability C5/C7 need from the surrounding process:
// read access to named variables, iteration over all of them (for
// building a child process's environment block), and home-directory
// lookup (spec §9 "Singleton process environment" — expansion only
// ever reads this capability; writes go through WriteEnviron, from
// builtin.CD and from interp.New when it seeds an unset $PWD).
type Environ interface {
	// Get returns the value of an environment variable and whether
	// it is set at all (unset and set-to-empty are different).
	Get(name string) (value string, ok bool)

	// Each calls fn once per currently-set variable. Iteration stops
	// early if fn returns false.
	Each(fn func(name, value string) bool)

	// HomeDir returns the current user's home directory (spec's
	// Parameter::MyHome), grounded on original_source's
	// common_env.rs.
	HomeDir() (string, error)

	// UserHomeDir returns the home directory of the named user
	// (spec's Parameter::OtherHome), or an error if the user can't be
	// resolved — expand.Word then falls back to "", per spec §4.3.
	UserHomeDir(name string) (string, error)
}

// WriteEnviron extends Environ with the ability to set variables in
// the underlying environment: the cd builtin uses it to update PWD and
// OLDPWD (spec §4.4), and interp.New to set PWD when it was unset.
type WriteEnviron interface {
	Environ
	Set(name, value string) error
}

// osEnviron is the default Environ/WriteEnviron, backed directly by
// the process environment via the os package.
type osEnviron struct{}

// FromOS returns the Environ backed by the real process environment:
// os.LookupEnv, os.Environ, os.Setenv, and os/user for home
// directories.
func FromOS() WriteEnviron { return osEnviron{} }

func (osEnviron) Get(name string) (string, bool) { return os.LookupEnv(name) }

func (osEnviron) Each(fn func(name, value string) bool) {
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if !fn(name, value) {
			return
		}
	}
}

func (osEnviron) Set(name, value string) error { return os.Setenv(name, value) }

func (osEnviron) HomeDir() (string, error) {
	if home, ok := os.LookupEnv("HOME"); ok && home != "" {
		return home, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

func (osEnviron) UserHomeDir(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// ListEnviron builds a simple map-backed Environ out of "NAME=value"
// strings, the shape tests use to build a scoped environment without
// touching the real process. It also satisfies WriteEnviron, so tests exercising the cd
// builtin (which writes PWD/OLDPWD) can use one directly.
func ListEnviron(environ ...string) WriteEnviron {
	m := make(map[string]string, len(environ))
	var order []string
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, exists := m[name]; !exists {
			order = append(order, name)
		}
		m[name] = value
	}
	return &listEnviron{m: m, order: order, fallback: osEnviron{}}
}

type listEnviron struct {
	m        map[string]string
	order    []string
	fallback osEnviron
}

func (l *listEnviron) Get(name string) (string, bool) {
	v, ok := l.m[name]
	return v, ok
}

func (l *listEnviron) Each(fn func(name, value string) bool) {
	for _, name := range l.order {
		if !fn(name, l.m[name]) {
			return
		}
	}
}

func (l *listEnviron) HomeDir() (string, error) {
	if home, ok := l.m["HOME"]; ok && home != "" {
		return home, nil
	}
	return l.fallback.HomeDir()
}

func (l *listEnviron) UserHomeDir(name string) (string, error) {
	return l.fallback.UserHomeDir(name)
}

func (l *listEnviron) Set(name, value string) error {
	if _, exists := l.m[name]; !exists {
		l.order = append(l.order, name)
	}
	l.m[name] = value
	return nil
}
