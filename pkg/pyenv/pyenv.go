// Package pyenv resolves the module search path of a Python interpreter.
//
// The search path is obtained by asking the interpreter itself: a short
// inline script prints sys.path, with PYTHONPATH and VIRTUAL_ENV cleared so
// the reported path reflects the target interpreter's default resolution
// rather than the calling environment's.
package pyenv

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// sysPathScript prints one sys.path entry per line, skipping empty entries.
const sysPathScript = `import sys
for p in filter(None, sys.path):
    print(p)`

// DefaultInterpreter returns the first Python interpreter found on PATH.
func DefaultInterpreter() (string, error) {
	for _, name := range []string{"python3", "python"} {
		if exe, err := exec.LookPath(name); err == nil {
			return exe, nil
		}
	}
	return "", errors.New(errors.ErrCodeInterpreter, "no python interpreter found on PATH")
}

// SearchPath returns the module search path of the given interpreter.
// When exe is empty, the default interpreter from PATH is used.
//
// The subprocess runs with PYTHONPATH and VIRTUAL_ENV cleared. A non-zero
// exit or empty output is a fatal error; there are no retries.
func SearchPath(ctx context.Context, exe string) ([]string, error) {
	if exe == "" {
		var err error
		if exe, err = DefaultInterpreter(); err != nil {
			return nil, err
		}
	}

	cmd := exec.CommandContext(ctx, exe, "-c", sysPathScript)
	cmd.Env = cleanEnv(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInterpreter, err, "querying sys.path from %s: %s", exe, strings.TrimSpace(stderr.String()))
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInterpreter, "interpreter %s reported an empty sys.path", exe)
	}
	return paths, nil
}

// cleanEnv returns env with module resolution overrides forced empty, so
// the interpreter reports its own default search path.
func cleanEnv(env []string) []string {
	cleaned := make([]string, 0, len(env)+2)
	for _, kv := range env {
		if strings.HasPrefix(kv, "PYTHONPATH=") || strings.HasPrefix(kv, "VIRTUAL_ENV=") {
			continue
		}
		cleaned = append(cleaned, kv)
	}
	return append(cleaned, "PYTHONPATH=", "VIRTUAL_ENV=")
}

// Dedupe canonicalizes every path entry and drops duplicates while
// preserving first-seen order. Two textual forms that resolve to the same
// directory (e.g., through a symlink) collapse to one entry.
func Dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		canonical := Canonicalize(p)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		deduped = append(deduped, canonical)
	}
	return deduped
}

// Canonicalize resolves a path to its canonical absolute form. Symlinks are
// resolved where possible; a path that cannot be resolved (e.g., it does
// not exist) is still made absolute so deduplication stays textual.
func Canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
