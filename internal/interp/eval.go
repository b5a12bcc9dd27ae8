package interp

import (
	"math"
	"strings"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/token"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// eval evaluates an expression to a value.
func (p *Interp) eval(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		return types.Num(e.Value), nil

	case *ast.StrLit:
		return types.Str(e.Value), nil

	case *ast.RegexLit:
		// A bare regex in expression context matches against $0
		matched, err := p.matchPattern(p.getRecord(), e.Pattern)
		if err != nil {
			return types.Num(0), nil
		}
		return types.Bool(matched), nil

	case *ast.GroupExpr:
		return p.eval(e.Expr)

	case *ast.Ident:
		return p.getVar(e.Name), nil

	case *ast.FieldExpr:
		idx, err := p.eval(e.Index)
		if err != nil {
			return types.Null(), err
		}
		return p.getField(int(idx.AsNum())), nil

	case *ast.IndexExpr:
		return p.evalIndex(e)

	case *ast.BinaryExpr:
		return p.evalBinary(e)

	case *ast.UnaryExpr:
		return p.evalUnary(e)

	case *ast.TernaryExpr:
		cond, err := p.eval(e.Cond)
		if err != nil {
			return types.Null(), err
		}
		if cond.AsBool() {
			return p.eval(e.Then)
		}
		return p.eval(e.Else)

	case *ast.AssignExpr:
		return p.evalAssign(e)

	case *ast.ConcatExpr:
		return p.evalConcat(e)

	case *ast.MatchExpr:
		return p.evalMatch(e)

	case *ast.InExpr:
		key, err := p.indexKey(e.Index)
		if err != nil {
			return types.Null(), err
		}
		arr, ok := p.peekArray(e.Array.Name)
		if !ok {
			return types.Bool(false), nil
		}
		_, found := arr[key]
		return types.Bool(found), nil

	case *ast.CallExpr:
		return p.callFunction(e.Name, e.Args)

	case *ast.IndirectCallExpr:
		name, err := p.eval(e.NameExpr)
		if err != nil {
			return types.Null(), err
		}
		return p.callFunction(name.AsStr(p.getConvfmt()), e.Args)

	case *ast.BuiltinExpr:
		return p.callBuiltin(e)

	case *ast.GetlineExpr:
		return p.evalGetline(e)

	default:
		p.runtimeError("internal", "unknown expression type")
		return types.Null(), nil
	}
}

// evalBinary handles arithmetic, comparison, and short-circuit logic.
// && and || yield 0/1, not the operand values.
func (p *Interp) evalBinary(e *ast.BinaryExpr) (types.Value, error) {
	switch e.Op {
	case token.AND:
		left, err := p.eval(e.Left)
		if err != nil {
			return types.Null(), err
		}
		if !left.AsBool() {
			return types.Num(0), nil
		}
		right, err := p.eval(e.Right)
		if err != nil {
			return types.Null(), err
		}
		return types.Bool(right.AsBool()), nil

	case token.OR:
		left, err := p.eval(e.Left)
		if err != nil {
			return types.Null(), err
		}
		if left.AsBool() {
			return types.Num(1), nil
		}
		right, err := p.eval(e.Right)
		if err != nil {
			return types.Null(), err
		}
		return types.Bool(right.AsBool()), nil
	}

	left, err := p.eval(e.Left)
	if err != nil {
		return types.Null(), err
	}
	right, err := p.eval(e.Right)
	if err != nil {
		return types.Null(), err
	}

	switch e.Op {
	case token.ADD:
		return types.Num(left.AsNum() + right.AsNum()), nil
	case token.SUB:
		return types.Num(left.AsNum() - right.AsNum()), nil
	case token.MUL:
		return types.Num(left.AsNum() * right.AsNum()), nil
	case token.DIV:
		// Division by zero follows IEEE 754: ±Inf or NaN for 0/0
		return types.Num(left.AsNum() / right.AsNum()), nil
	case token.MOD:
		return types.Num(math.Mod(left.AsNum(), right.AsNum())), nil
	case token.POW:
		return types.Num(math.Pow(left.AsNum(), right.AsNum())), nil

	case token.EQUALS:
		return types.Bool(types.Compare(left, right) == 0), nil
	case token.NOT_EQUALS:
		return types.Bool(types.Compare(left, right) != 0), nil
	case token.LESS:
		return types.Bool(types.Compare(left, right) < 0), nil
	case token.LTE:
		return types.Bool(types.Compare(left, right) <= 0), nil
	case token.GREATER:
		return types.Bool(types.Compare(left, right) > 0), nil
	case token.GTE:
		return types.Bool(types.Compare(left, right) >= 0), nil

	default:
		p.runtimeError("internal", "unknown binary operator")
		return types.Null(), nil
	}
}

// evalUnary handles !, unary +/-, and the four increment forms.
// Pre forms mutate then return the new value; post forms return the
// numeric snapshot from before the mutation. Either way the target is
// left with the Number tag.
func (p *Interp) evalUnary(e *ast.UnaryExpr) (types.Value, error) {
	switch e.Op {
	case token.NOT:
		v, err := p.eval(e.Expr)
		if err != nil {
			return types.Null(), err
		}
		return types.Bool(!v.AsBool()), nil

	case token.ADD:
		v, err := p.eval(e.Expr)
		if err != nil {
			return types.Null(), err
		}
		return types.Num(v.AsNum()), nil

	case token.SUB:
		v, err := p.eval(e.Expr)
		if err != nil {
			return types.Null(), err
		}
		return types.Num(-v.AsNum()), nil

	case token.INCR, token.DECR:
		old, err := p.lvalueRead(e.Expr)
		if err != nil {
			return types.Null(), err
		}
		delta := 1.0
		if e.Op == token.DECR {
			delta = -1
		}
		updated := types.Num(old.AsNum() + delta)
		if err := p.assign(e.Expr, updated); err != nil {
			return types.Null(), err
		}
		if e.Post {
			return types.Num(old.AsNum()), nil
		}
		return updated, nil

	default:
		p.runtimeError("internal", "unknown unary operator")
		return types.Null(), nil
	}
}

// evalConcat joins the string forms of all parts.
// The common self-append x = x rest is recognized in evalAssign.
func (p *Interp) evalConcat(e *ast.ConcatExpr) (types.Value, error) {
	var sb strings.Builder
	convfmt := p.getConvfmt()
	for _, part := range e.Exprs {
		v, err := p.eval(part)
		if err != nil {
			return types.Null(), err
		}
		sb.WriteString(v.AsStr(convfmt))
	}
	return types.Str(sb.String()), nil
}

// evalMatch handles ~ and !~.
func (p *Interp) evalMatch(e *ast.MatchExpr) (types.Value, error) {
	text, err := p.eval(e.Expr)
	if err != nil {
		return types.Null(), err
	}

	pattern, err := p.patternText(e.Pattern)
	if err != nil {
		return types.Null(), err
	}

	matched, err := p.matchPattern(text.AsStr(p.getConvfmt()), pattern)
	if err != nil {
		return types.Num(0), nil
	}
	if e.Op == token.NOT_MATCH {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// patternText extracts the regex source from a pattern operand: a
// regex literal yields its pattern, anything else its string form.
func (p *Interp) patternText(expr ast.Expr) (string, error) {
	if re, ok := expr.(*ast.RegexLit); ok {
		return re.Pattern, nil
	}
	v, err := p.eval(expr)
	if err != nil {
		return "", err
	}
	if v.IsRegex() {
		return v.Pattern(), nil
	}
	return v.AsStr(p.getConvfmt()), nil
}

// matchPattern compiles through the shared cache and tests s.
// An invalid pattern is a recoverable runtime error.
func (p *Interp) matchPattern(s, pattern string) (bool, error) {
	re, err := p.regex.Get(pattern, p.ignoreCase())
	if err != nil {
		p.runtimeError("invalid regex "+pattern, err.Error())
		return false, err
	}
	return re.MatchString(s), nil
}

// evalIndex evaluates arr[indices], with the reflective SYMTAB and
// FUNCTAB arrays special-cased. A plain lookup creates the element,
// matching POSIX reference semantics.
func (p *Interp) evalIndex(e *ast.IndexExpr) (types.Value, error) {
	key, err := p.indexKey(e.Index)
	if err != nil {
		return types.Null(), err
	}

	switch e.Array.Name {
	case "SYMTAB":
		// SYMTAB["x"] reads the global x
		return p.globals[resolveName(key)], nil
	case "FUNCTAB":
		if _, ok := p.funcs[key]; ok {
			return types.Str(key), nil
		}
		if token.LookupBuiltin(key) != token.ILLEGAL {
			return types.Str(key), nil
		}
		return types.Str(""), nil
	}

	arr := p.array(e.Array.Name)
	v, ok := arr[key]
	if !ok {
		arr[key] = types.Null()
	}
	return v, nil
}

// indexKey forms an array key: each index coerced to string, joined
// with the current SUBSEP.
func (p *Interp) indexKey(indices []ast.Expr) (string, error) {
	convfmt := p.getConvfmt()
	if len(indices) == 1 {
		v, err := p.eval(indices[0])
		if err != nil {
			return "", err
		}
		return v.AsStr(convfmt), nil
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		v, err := p.eval(idx)
		if err != nil {
			return "", err
		}
		parts[i] = v.AsStr(convfmt)
	}
	return strings.Join(parts, p.getSubsep()), nil
}

// evalAssign computes the right side, applies a compound operator if
// any, and writes the target lvalue. The assigned value is returned.
func (p *Interp) evalAssign(e *ast.AssignExpr) (types.Value, error) {
	// Self-append: x = x rest... appends into the existing string,
	// avoiding quadratic copying when building large strings.
	if e.Op == token.ASSIGN {
		if v, ok, err := p.evalSelfAppend(e); ok || err != nil {
			return v, err
		}
	}

	right, err := p.eval(e.Right)
	if err != nil {
		return types.Null(), err
	}

	if e.Op != token.ASSIGN {
		old, err := p.lvalueRead(e.Left)
		if err != nil {
			return types.Null(), err
		}
		switch e.Op {
		case token.ADD_ASSIGN:
			right = types.Num(old.AsNum() + right.AsNum())
		case token.SUB_ASSIGN:
			right = types.Num(old.AsNum() - right.AsNum())
		case token.MUL_ASSIGN:
			right = types.Num(old.AsNum() * right.AsNum())
		case token.DIV_ASSIGN:
			right = types.Num(old.AsNum() / right.AsNum())
		case token.MOD_ASSIGN:
			right = types.Num(math.Mod(old.AsNum(), right.AsNum()))
		case token.POW_ASSIGN:
			right = types.Num(math.Pow(old.AsNum(), right.AsNum()))
		}
	}

	if err := p.assign(e.Left, right); err != nil {
		return types.Null(), err
	}
	return right, nil
}

// evalSelfAppend recognizes ident = ident <rest> and appends in place.
func (p *Interp) evalSelfAppend(e *ast.AssignExpr) (types.Value, bool, error) {
	target, ok := e.Left.(*ast.Ident)
	if !ok {
		return types.Null(), false, nil
	}
	concat, ok := e.Right.(*ast.ConcatExpr)
	if !ok {
		return types.Null(), false, nil
	}
	first, ok := concat.Exprs[0].(*ast.Ident)
	if !ok || first.Name != target.Name {
		return types.Null(), false, nil
	}

	convfmt := p.getConvfmt()
	var sb strings.Builder
	sb.WriteString(p.getVar(target.Name).AsStr(convfmt))
	for _, part := range concat.Exprs[1:] {
		v, err := p.eval(part)
		if err != nil {
			return types.Null(), false, err
		}
		sb.WriteString(v.AsStr(convfmt))
	}
	result := types.Str(sb.String())
	p.setVar(target.Name, result)
	return result, true, nil
}

// lvalueRead reads the current value of an lvalue expression.
func (p *Interp) lvalueRead(target ast.Expr) (types.Value, error) {
	switch t := target.(type) {
	case *ast.Ident:
		return p.getVar(t.Name), nil
	case *ast.FieldExpr:
		idx, err := p.eval(t.Index)
		if err != nil {
			return types.Null(), err
		}
		return p.getField(int(idx.AsNum())), nil
	case *ast.IndexExpr:
		return p.evalIndex(t)
	case *ast.GroupExpr:
		return p.lvalueRead(t.Expr)
	default:
		p.runtimeError("assignment", "not an lvalue")
		return types.Null(), nil
	}
}

// assign writes a value through an lvalue expression.
func (p *Interp) assign(target ast.Expr, v types.Value) error {
	switch t := target.(type) {
	case *ast.Ident:
		p.assignVar(t.Name, v)
		return nil

	case *ast.FieldExpr:
		idx, err := p.eval(t.Index)
		if err != nil {
			return err
		}
		p.setField(int(idx.AsNum()), v.AsStr(p.getConvfmt()))
		return nil

	case *ast.IndexExpr:
		key, err := p.indexKey(t.Index)
		if err != nil {
			return err
		}
		if t.Array.Name == "SYMTAB" {
			// Writing SYMTAB["x"] writes the global x
			p.setGlobal(key, v)
			return nil
		}
		p.array(t.Array.Name)[key] = v
		return nil

	case *ast.GroupExpr:
		return p.assign(t.Expr, v)

	default:
		p.runtimeError("assignment", "not an lvalue")
		return nil
	}
}

// assignVar writes a scalar variable (local-aware).
func (p *Interp) assignVar(name string, v types.Value) {
	p.setVar(name, v)
}

// callFunction dispatches a call by name: user functions first, then
// the builtin table (qualified spelling, then the bare tail). Used for
// both direct calls of user functions and @indirect calls.
func (p *Interp) callFunction(name string, args []ast.Expr) (types.Value, error) {
	if fn, ok := p.funcs[name]; ok {
		return p.callUserFunction(fn, args)
	}

	builtinName := name
	if i := strings.Index(builtinName, "::"); i >= 0 {
		builtinName = builtinName[i+2:]
	}
	if tok := token.LookupBuiltin(builtinName); tok != token.ILLEGAL {
		return p.callBuiltin(&ast.BuiltinExpr{Func: tok, Args: args})
	}

	p.runtimeError(name, "calling undefined function")
	return types.Null(), nil
}

// callUserFunction binds arguments and executes the function body in a
// fresh scope frame. Scalars bind by value; an argument that names an
// array binds the shared backing map so the callee mutates the
// caller's array. Missing arguments start uninitialized, which is how
// extra trailing formals act as locals. The frame is popped on every
// exit path.
func (p *Interp) callUserFunction(fn *ast.FuncDecl, args []ast.Expr) (types.Value, error) {
	if len(args) > len(fn.Params) {
		p.runtimeError(fn.Name, "called with more arguments than declared")
		args = args[:len(fn.Params)]
	}

	frame := make(map[string]types.Value, len(fn.Params))
	for i, param := range fn.Params {
		if i >= len(args) {
			frame[param] = types.Null()
			continue
		}
		if ident, ok := args[i].(*ast.Ident); ok {
			if cur := p.getVar(ident.Name); cur.IsArray() {
				frame[param] = cur // shared handle, aliases the caller's array
				continue
			}
		}
		v, err := p.eval(args[i])
		if err != nil {
			return types.Null(), err
		}
		frame[param] = v
	}

	p.frames = append(p.frames, frame)
	err := p.execBlock(fn.Body)
	p.frames = p.frames[:len(p.frames)-1]

	if err != nil {
		if ret, ok := err.(*returnValue); ok {
			return ret.value, nil
		}
		return types.Null(), err
	}
	return types.Null(), nil
}
