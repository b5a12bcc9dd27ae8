package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/token"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// outputStr converts a value for print: numbers use OFMT at print
// time, everything else CONVFMT rules.
func (p *Interp) outputStr(v types.Value) string {
	if v.IsNum() {
		return types.FormatNum(v.AsNum(), p.getOfmt())
	}
	return v.AsStr(p.getConvfmt())
}

// execPrint runs a print or printf statement, resolving any redirect
// to its registry stream.
func (p *Interp) execPrint(s *ast.PrintStmt) error {
	var text string

	if s.Printf {
		format, err := p.eval(s.Args[0])
		if err != nil {
			return err
		}
		args := make([]types.Value, 0, len(s.Args)-1)
		for _, arg := range s.Args[1:] {
			v, err := p.eval(arg)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		text = p.sprintf(format.AsStr(p.getConvfmt()), args)
	} else if len(s.Args) == 0 {
		text = p.getRecord() + p.getORS()
	} else {
		parts := make([]string, len(s.Args))
		for i, arg := range s.Args {
			v, err := p.eval(arg)
			if err != nil {
				return err
			}
			parts[i] = p.outputStr(v)
		}
		text = strings.Join(parts, p.getOFS()) + p.getORS()
	}

	w, err := p.printWriter(s)
	if err != nil {
		// Already reported; the statement degrades to a no-op
		return nil
	}
	io.WriteString(w, text)
	return nil
}

// printRecord writes $0 plus ORS to stdout (the default rule action).
func (p *Interp) printRecord() error {
	io.WriteString(p.out, p.getRecord()+p.getORS())
	return nil
}

// printWriter resolves a print statement's destination stream.
func (p *Interp) printWriter(s *ast.PrintStmt) (io.Writer, error) {
	if s.Redirect == token.ILLEGAL {
		return p.out, nil
	}

	dest, err := p.eval(s.Dest)
	if err != nil {
		return nil, err
	}
	target := dest.AsStr(p.getConvfmt())

	switch s.Redirect {
	case token.GREATER:
		w, err := p.ioman.Output(target, false)
		if err != nil {
			p.runtimeError("can't redirect to "+target, err.Error())
			return nil, err
		}
		return w, nil
	case token.APPEND:
		w, err := p.ioman.Output(target, true)
		if err != nil {
			p.runtimeError("can't redirect to "+target, err.Error())
			return nil, err
		}
		return w, nil
	case token.PIPE:
		w, err := p.ioman.OutputPipe(target)
		if err != nil {
			p.runtimeError("can't open pipe to "+target, err.Error())
			return nil, err
		}
		return w, nil
	case token.PIPE_BOTH:
		cp, err := p.ioman.Coprocess(target)
		if err != nil {
			p.runtimeError("can't open coprocess "+target, err.Error())
			return nil, err
		}
		return cp.Writer(), nil
	default:
		return p.out, nil
	}
}

// flushStdout flushes the buffered standard output.
func (p *Interp) flushStdout() {
	p.out.Flush()
}

// sprintf implements the C-style format engine behind printf and
// sprintf: flags [-+ #0], width (or *), precision (.n or .*), and the
// conversions d i o u x X e E f F g G c s %. Dynamic * widths consume
// the next argument before the value argument.
func (p *Interp) sprintf(format string, args []types.Value) string {
	var sb strings.Builder
	argIdx := 0
	next := func() types.Value {
		if argIdx < len(args) {
			v := args[argIdx]
			argIdx++
			return v
		}
		// Missing arguments format as empty/zero
		return types.Null()
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			sb.WriteByte('%')
			break
		}
		if format[i] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}

		// Collect flags
		spec := []byte{'%'}
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			spec = append(spec, format[i])
			i++
		}
		// Width
		if i < len(format) && format[i] == '*' {
			spec = append(spec, []byte(strconv.Itoa(int(next().AsNum())))...)
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				spec = append(spec, format[i])
				i++
			}
		}
		// Precision
		if i < len(format) && format[i] == '.' {
			spec = append(spec, '.')
			i++
			if i < len(format) && format[i] == '*' {
				spec = append(spec, []byte(strconv.Itoa(int(next().AsNum())))...)
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					spec = append(spec, format[i])
					i++
				}
			}
		}

		if i >= len(format) {
			sb.Write(spec)
			break
		}

		verb := format[i]
		i++

		switch verb {
		case 'd', 'i':
			spec = append(spec, 'd')
			sb.WriteString(fmt.Sprintf(string(spec), int64(next().AsNum())))
		case 'u':
			spec = append(spec, 'd')
			sb.WriteString(fmt.Sprintf(string(spec), uint64(int64(next().AsNum()))))
		case 'o', 'x', 'X':
			spec = append(spec, verb)
			sb.WriteString(fmt.Sprintf(string(spec), uint64(int64(next().AsNum()))))
		case 'e', 'E', 'f', 'g', 'G':
			spec = append(spec, verb)
			sb.WriteString(fmt.Sprintf(string(spec), next().AsNum()))
		case 'F':
			spec = append(spec, 'f')
			sb.WriteString(fmt.Sprintf(string(spec), next().AsNum()))
		case 'c':
			v := next()
			var s string
			if v.IsNum() {
				s = string([]byte{byte(int(v.AsNum()))})
			} else {
				str := v.AsStr(p.getConvfmt())
				if str != "" {
					s = str[:1]
				}
			}
			spec = append(spec, 's')
			sb.WriteString(fmt.Sprintf(string(spec), s))
		case 's':
			spec = append(spec, 's')
			sb.WriteString(fmt.Sprintf(string(spec), next().AsStr(p.getConvfmt())))
		default:
			// Unknown conversion passes through verbatim
			sb.Write(spec)
			sb.WriteByte(verb)
		}
	}

	return sb.String()
}
