package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	os.Exit(Reportf(os.Stderr, format, args...))
}

// Reportf writes a formatted error line to w and returns the exit code a
// command should terminate with.
func Reportf(w io.Writer, format string, args ...any) int {
	fmt.Fprintf(w, format+"\n", args...)
	return 1
}
