package interp

import (
	"io"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/runtime"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// evalGetline handles every getline variant:
//
//	getline                  main input into $0, NR/FNR updated
//	getline var              main input into var, NR/FNR updated
//	getline < file           file into $0
//	getline var < file       file into var
//	cmd | getline [var]      command pipe
//	cmd |& getline [var]     coprocess stdout
//
// Returns 1 on success, -1 at EOF or on open failure, 0 on a read
// error mid-stream.
func (p *Interp) evalGetline(e *ast.GetlineExpr) (types.Value, error) {
	var reader *runtime.RecordReader
	updateNR := false

	switch {
	case e.Command != nil:
		cmd, err := p.eval(e.Command)
		if err != nil {
			return types.Null(), err
		}
		cmdStr := cmd.AsStr(p.getConvfmt())

		if e.Coprocess {
			cp, err := p.ioman.Coprocess(cmdStr)
			if err != nil {
				p.runtimeError("can't open coprocess "+cmdStr, err.Error())
				return types.Num(-1), nil
			}
			// Flush pending writes so the child has seen our requests
			cp.Writer().Flush()
			reader = cp.Reader()
		} else {
			r, err := p.ioman.InputPipe(cmdStr)
			if err != nil {
				p.runtimeError("can't open pipe from "+cmdStr, err.Error())
				return types.Num(-1), nil
			}
			reader = r
		}

	case e.File != nil:
		file, err := p.eval(e.File)
		if err != nil {
			return types.Null(), err
		}
		name := file.AsStr(p.getConvfmt())
		r, err := p.ioman.Input(name)
		if err != nil {
			p.runtimeError("can't open file "+name+" for reading", err.Error())
			return types.Num(-1), nil
		}
		reader = r

	default:
		// Plain getline reads the main input stream
		if p.curInput != nil {
			reader = p.curInput
		} else {
			r, err := p.ioman.Input("-")
			if err != nil {
				return types.Num(-1), nil
			}
			reader = r
		}
		updateNR = true
	}

	record, rt, err := reader.Read(p.getRS())
	if err == io.EOF {
		return types.Num(-1), nil
	}
	if err != nil {
		p.runtimeError("getline", err.Error())
		return types.Num(0), nil
	}

	p.setGlobal("RT", types.Str(rt))
	if updateNR {
		p.addToGlobalNum("NR", 1)
		p.addToGlobalNum("FNR", 1)
	}

	if e.Target != nil {
		if err := p.assign(e.Target, types.NumStr(record)); err != nil {
			return types.Null(), err
		}
	} else {
		p.setRecord(record)
	}

	return types.Num(1), nil
}
