package awk

import (
	"bytes"
	"io"
	"os"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/interp"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// parserReadFile loads a program file for CompileFile.
func parserReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Program represents a parsed AWK program ready for execution.
// Each call to Run creates an independent execution context.
type Program struct {
	ast    *ast.Program
	source string // Original source for debugging
}

// Run executes the program with the given input and configuration.
// Returns the output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty. A non-zero exit statement surfaces as
// *ExitError; exit 0 is success.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}

	var outputBuf *bytes.Buffer
	output := config.Output
	if output == nil {
		outputBuf = &bytes.Buffer{}
		output = outputBuf
	}
	stderr := config.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	vars := make(map[string]types.Value, len(config.Vars)+2)
	if config.FS != "" {
		vars["FS"] = types.Str(config.FS)
	}
	if config.RS != "" && config.RS != "\n" {
		vars["RS"] = types.Str(config.RS)
	}
	for name, value := range config.Vars {
		vars[name] = interp.TypedAssignment(value)
	}

	it := interp.New(p.ast, &interp.Config{
		Stdin:   input,
		Stdout:  output,
		Stderr:  stderr,
		Vars:    vars,
		Args:    config.Args,
		Environ: config.Environ,
	})

	status, err := it.Run()
	if err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}

	result := ""
	if outputBuf != nil {
		result = outputBuf.String()
	}
	if status != 0 {
		return result, &ExitError{Code: status}
	}
	return result, nil
}

// Execute runs the program against explicit process-style streams and
// returns the exit status. This is the entry point the CLI uses.
func (p *Program) Execute(stdin io.Reader, stdout, stderr io.Writer, vars map[string]string, args []string) (int, error) {
	typed := make(map[string]types.Value, len(vars))
	for name, value := range vars {
		typed[name] = interp.TypedAssignment(value)
	}

	it := interp.New(p.ast, &interp.Config{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Vars:   typed,
		Args:   args,
	})
	return it.Run()
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}
