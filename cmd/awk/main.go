// awk - a gawk-compatible AWK interpreter.
//
// Uses manual argument parsing for POSIX compatibility (supports flags
// with no space before the argument, like -F:).
package main

import (
	"fmt"
	"os"
	"strings"

	awk "github.com/RogerWilloughby/awk-interpreter"
)

const usage = `usage: awk [-F fs] [-v var=value] [-f progfile | 'prog'] [file ...]

Standard arguments:
  -F separator      field separator (default " ")
  -f progfile       load AWK source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

Other:
  -h, --help        show this help message
  --version         show version and exit
  --                end of options
`

func errorExitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "awk: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	var progFiles []string
	vars := make(map[string]string)
	fieldSep := ""

	var i int
	for i = 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -F")
			}
			i++
			fieldSep = os.Args[i]
		case "-f":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -f")
			}
			i++
			progFiles = append(progFiles, os.Args[i])
		case "-v":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -v")
			}
			i++
			addAssignment(vars, os.Args[i])
		case "-h", "--help":
			fmt.Printf("awk %s\n\n%s", awk.Version, usage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("awk version %s\n", awk.Version)
			os.Exit(0)
		default:
			// Flags with no space: -F:, -ffile, -vvar=val
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				addAssignment(vars, arg[2:])
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	args := os.Args[i:]

	var prog *awk.Program
	var err error
	switch {
	case len(progFiles) == 1:
		prog, err = awk.CompileFile(progFiles[0])
	case len(progFiles) > 1:
		var sb strings.Builder
		for _, f := range progFiles {
			content, rerr := os.ReadFile(f)
			if rerr != nil {
				errorExitf("cannot read program file %s: %v", f, rerr)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		prog, err = awk.Compile(sb.String())
	default:
		if len(args) == 0 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		prog, err = awk.Compile(args[0])
		args = args[1:]
	}
	if err != nil {
		errorExitf("%v", err)
	}

	if fieldSep != "" {
		vars["FS"] = fieldSep
	}

	status, runErr := prog.Execute(os.Stdin, os.Stdout, os.Stderr, vars, args)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "awk: %v\n", runErr)
		os.Exit(2)
	}
	os.Exit(status)
}

// addAssignment records a -v var=value option.
func addAssignment(vars map[string]string, arg string) {
	eq := strings.IndexByte(arg, '=')
	if eq <= 0 {
		errorExitf("invalid -v assignment: %s", arg)
	}
	vars[arg[:eq]] = arg[eq+1:]
}
