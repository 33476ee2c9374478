package acodec

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

const (
	LibDirEnv = "SOULFRAME_LIB_DIR"
	// ancestorDepth is how many parent directories are searched for a lib/
	// folder.
	ancestorDepth = 8
)

type (
	ErrLibNotFound struct {
		Name      string
		Attempted []string
	}
)

func (r ErrLibNotFound) Error() string {
	return "could not find " + r.Name + ", looked in:\n  - " + strings.Join(r.Attempted, "\n  - ")
}

func ancestorLibDirs(dir string) []string {
	dirs := make([]string, 0, ancestorDepth)
	for i := 0; i < ancestorDepth; i++ {
		dirs = append(dirs, filepath.Join(dir, "lib"))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs
}

// RuntimeLibCandidates lists, in search order, the files FindRuntimeLib
// checks for name.
func RuntimeLibCandidates(name string, libDir string) []string {
	dirs := make([]string, 0)
	if libDir != "" {
		dirs = append(dirs, libDir)
	}
	if dir := os.Getenv(LibDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, filepath.Join(exeDir, "lib"), exeDir)
		dirs = append(dirs, ancestorLibDirs(exeDir)...)
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(cwd, "lib"), cwd)
		dirs = append(dirs, ancestorLibDirs(cwd)...)
	}

	return lo.Uniq(
		lo.Map(dirs, func(dir string, _ int) string {
			return filepath.Join(dir, name)
		}),
	)
}

// FindRuntimeLib returns the first existing candidate for name.
func FindRuntimeLib(name string, libDir string) (string, error) {
	candidates := RuntimeLibCandidates(name, libDir)
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", ErrLibNotFound{
		Name:      name,
		Attempted: candidates,
	}
}
