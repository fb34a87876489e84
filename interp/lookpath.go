package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ndunnett/crsh/expand"
)

// LookPath resolves name to an executable file using env's PATH (spec
// §6 "Executable resolution"), grounded on interp.LookPathDir in the
// teacher: split PATH on the platform list separator, join each
// element with name, and probe it with pathExts appended on Windows.
func LookPath(env expand.Environ, name string) (string, error) {
	chars := `/`
	if runtime.GOOS == "windows" {
		chars = `:\/`
	}
	exts := pathExts(env)
	if strings.ContainsAny(name, chars) {
		return checkExecutable(name, exts)
	}

	pathVar, _ := env.Get("PATH")
	pathList := filepath.SplitList(pathVar)
	if len(pathList) == 0 {
		pathList = []string{""}
	}
	for _, dir := range pathList {
		var candidate string
		switch dir {
		case "", ".":
			candidate = "." + string(filepath.Separator) + name
		default:
			candidate = filepath.Join(dir, name)
		}
		if path, err := checkExecutable(candidate, exts); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%q: executable file not found in $PATH", name)
}

func checkExecutable(file string, exts []string) (string, error) {
	if len(exts) == 0 {
		return checkStat(file)
	}
	if hasExt(file) {
		if path, err := checkStat(file); err == nil {
			return path, nil
		}
	}
	for _, ext := range exts {
		if path, err := checkStat(file + ext); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%q: not found", file)
}

func checkStat(file string) (string, error) {
	info, err := os.Stat(file)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q: is a directory", file)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("%q: permission denied", file)
	}
	return file, nil
}

func hasExt(file string) bool {
	i := strings.LastIndex(file, ".")
	if i < 0 {
		return false
	}
	return strings.LastIndexAny(file, `:\/`) < i
}

// pathExts returns the PATHEXT-derived suffixes to probe on Windows,
// or nil elsewhere.
func pathExts(env expand.Environ) []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	pathext, _ := env.Get("PATHEXT")
	if pathext == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, e := range strings.Split(strings.ToLower(pathext), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}
