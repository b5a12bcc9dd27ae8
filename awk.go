// Package awk implements a gawk-compatible AWK interpreter.
package awk

import (
	"io"

	"github.com/RogerWilloughby/awk-interpreter/internal/parser"
)

// Version is the interpreter version string.
const Version = "1.0.0"

// Run executes an AWK program with the given input.
// This is a convenience function for one-off execution.
// For repeated execution of the same program, use Compile followed by
// Program.Run.
//
// Example:
//
//	output, err := awk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//	// output: "hello\n"
func Run(program string, input io.Reader, config *Config) (string, error) {
	prog, err := Compile(program)
	if err != nil {
		return "", err
	}
	return prog.Run(input, config)
}

// Compile parses an AWK program for execution.
// The returned Program can be executed multiple times with different inputs.
func Compile(program string) (*Program, error) {
	return compile(program, "")
}

// CompileFile parses an AWK program from a file. @include directives
// resolve relative to the file's directory.
func CompileFile(path string) (*Program, error) {
	src, err := parserReadFile(path)
	if err != nil {
		return nil, err
	}
	return compile(string(src), path)
}

func compile(program, filename string) (*Program, error) {
	var opts []parser.Option
	if filename != "" {
		opts = append(opts, parser.WithFilename(filename))
	}
	astProg, err := parser.Parse(program, opts...)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			return nil, &ParseError{
				Line:    pe.Pos.Line,
				Column:  pe.Pos.Column,
				Message: pe.Message,
			}
		}
		if el, ok := err.(parser.ErrorList); ok && len(el) > 0 {
			return nil, &ParseError{
				Line:    el[0].Pos.Line,
				Column:  el[0].Pos.Column,
				Message: el[0].Message,
			}
		}
		return nil, &ParseError{Message: err.Error()}
	}

	return &Program{ast: astProg, source: program}, nil
}

// Exec is a simplified interface for running an AWK program.
// It reads from input, writes to output, and returns any error.
//
// Example:
//
//	err := awk.Exec(`{ print toupper($0) }`, os.Stdin, os.Stdout, nil)
func Exec(program string, input io.Reader, output io.Writer, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}

	if config == nil {
		config = &Config{}
	}
	config.Output = output

	_, err = prog.Run(input, config)
	return err
}

// MustCompile is like Compile but panics if the program cannot be
// compiled. It simplifies initialization of global program variables.
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}
