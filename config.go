package awk

import "io"

// Config holds configuration options for AWK execution.
type Config struct {
	// FS is the input field separator (default: " ").
	// A single space means runs of whitespace separate fields; a
	// single character splits literally; anything longer is an ERE.
	FS string

	// RS is the input record separator (default: "\n").
	// Leave empty for the default; paragraph mode is selected by
	// assigning RS = "" inside the program.
	RS string

	// Vars contains pre-defined variables, set before BEGIN like the
	// CLI's -v assignments: values that parse cleanly as numbers are
	// stored as numbers.
	Vars map[string]string

	// Output is the writer for print/printf statements.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Stderr is the writer for diagnostics. Defaults to a discard
	// writer so embedded programs stay quiet.
	Stderr io.Writer

	// Args contains the input targets, populating ARGV[1..n].
	// "var=value" entries act as assignments between files.
	Args []string

	// Environ overrides the ENVIRON array (process environment when nil).
	Environ []string
}
