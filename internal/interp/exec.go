package interp

import (
	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// exec executes one statement. Control flow statements report their
// sentinel through the error return; everything else returns nil.
func (p *Interp) exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case nil:
		return nil

	case *ast.BlockStmt:
		return p.execBlock(s)

	case *ast.ExprStmt:
		_, err := p.eval(s.Expr)
		return err

	case *ast.PrintStmt:
		return p.execPrint(s)

	case *ast.IfStmt:
		cond, err := p.eval(s.Cond)
		if err != nil {
			return err
		}
		if cond.AsBool() {
			return p.exec(s.Then)
		}
		if s.Else != nil {
			return p.exec(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := p.eval(s.Cond)
			if err != nil {
				return err
			}
			if !cond.AsBool() {
				return nil
			}
			if err := p.execLoopBody(s.Body); err != nil {
				if err == errBreak {
					return nil
				}
				return err
			}
		}

	case *ast.DoWhileStmt:
		for {
			if err := p.execLoopBody(s.Body); err != nil {
				if err == errBreak {
					return nil
				}
				return err
			}
			cond, err := p.eval(s.Cond)
			if err != nil {
				return err
			}
			if !cond.AsBool() {
				return nil
			}
		}

	case *ast.ForStmt:
		if s.Init != nil {
			if err := p.exec(s.Init); err != nil {
				return err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := p.eval(s.Cond)
				if err != nil {
					return err
				}
				if !cond.AsBool() {
					return nil
				}
			}
			if err := p.execLoopBody(s.Body); err != nil {
				if err == errBreak {
					return nil
				}
				return err
			}
			if s.Post != nil {
				if err := p.exec(s.Post); err != nil {
					return err
				}
			}
		}

	case *ast.ForInStmt:
		return p.execForIn(s)

	case *ast.SwitchStmt:
		return p.execSwitch(s)

	case *ast.BreakStmt:
		return errBreak

	case *ast.ContinueStmt:
		return errContinue

	case *ast.NextStmt:
		return errNext

	case *ast.NextFileStmt:
		return errNextFile

	case *ast.ReturnStmt:
		value := types.Null()
		if s.Value != nil {
			v, err := p.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnValue{value: value}

	case *ast.ExitStmt:
		code := 0
		if s.Code != nil {
			v, err := p.eval(s.Code)
			if err != nil {
				return err
			}
			code = int(v.AsNum())
		}
		return &ExitError{Code: code}

	case *ast.DeleteStmt:
		return p.execDelete(s)

	default:
		p.runtimeError("internal", "unknown statement type")
		return nil
	}
}

// execBlock executes the statements of a block in order.
func (p *Interp) execBlock(block *ast.BlockStmt) error {
	for _, stmt := range block.Stmts {
		if err := p.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// execLoopBody runs a loop body, converting continue into a normal
// end-of-iteration.
func (p *Interp) execLoopBody(body ast.Stmt) error {
	err := p.exec(body)
	if err == errContinue {
		return nil
	}
	return err
}

// execForIn iterates over a snapshot of the array's keys, so deleting
// entries inside the body is safe. Key order is unspecified.
func (p *Interp) execForIn(s *ast.ForInStmt) error {
	arr, ok := p.peekArray(s.Array.Name)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(arr))
	for k := range arr {
		keys = append(keys, k)
	}

	for _, key := range keys {
		p.assignVar(s.Var.Name, types.Str(key))
		if err := p.execLoopBody(s.Body); err != nil {
			if err == errBreak {
				return nil
			}
			return err
		}
	}
	return nil
}

// execSwitch finds the first matching case and falls through until
// break. A regex case label matches the switch value like ~ does.
func (p *Interp) execSwitch(s *ast.SwitchStmt) error {
	value, err := p.eval(s.Expr)
	if err != nil {
		return err
	}

	start := -1
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Default {
			defaultIdx = i
			continue
		}
		matched, err := p.caseMatches(value, c.Value)
		if err != nil {
			return err
		}
		if matched {
			start = i
			break
		}
	}
	if start < 0 {
		start = defaultIdx
	}
	if start < 0 {
		return nil
	}

	for _, c := range s.Cases[start:] {
		for _, stmt := range c.Body {
			if err := p.exec(stmt); err != nil {
				if err == errBreak {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

func (p *Interp) caseMatches(value types.Value, label ast.Expr) (bool, error) {
	if re, ok := label.(*ast.RegexLit); ok {
		return p.matchPattern(value.AsStr(p.getConvfmt()), re.Pattern)
	}
	lv, err := p.eval(label)
	if err != nil {
		return false, err
	}
	return types.Compare(value, lv) == 0, nil
}

// execDelete removes one element or clears the whole array.
func (p *Interp) execDelete(s *ast.DeleteStmt) error {
	arr := p.array(s.Array.Name)
	if len(s.Index) == 0 {
		for k := range arr {
			delete(arr, k)
		}
		return nil
	}
	key, err := p.indexKey(s.Index)
	if err != nil {
		return err
	}
	delete(arr, key)
	return nil
}
