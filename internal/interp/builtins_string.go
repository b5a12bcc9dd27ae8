package interp

import (
	"sort"
	"strings"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/runtime"
	"github.com/RogerWilloughby/awk-interpreter/internal/token"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// builtinLength implements length / length(x) / length(arr).
func (p *Interp) builtinLength(args []ast.Expr) (types.Value, error) {
	if len(args) == 0 {
		return types.Num(float64(len(p.getRecord()))), nil
	}
	if ident, ok := args[0].(*ast.Ident); ok {
		if v := p.getVar(ident.Name); v.IsArray() {
			return types.Num(float64(len(v.Map()))), nil
		}
	}
	v, err := p.eval(args[0])
	if err != nil {
		return types.Null(), err
	}
	return types.Num(float64(len(v.AsStr(p.getConvfmt())))), nil
}

// builtinIndex returns the 1-based position of t in s, or 0.
func (p *Interp) builtinIndex(s, t string) types.Value {
	return types.Num(float64(strings.Index(s, t) + 1))
}

// builtinSubstr implements substr(s, m [, n]) with 1-based indexing.
// An out-of-range start clamps to 1; n <= 0 yields "".
func (p *Interp) builtinSubstr(args []types.Value) types.Value {
	s := args[0].AsStr(p.getConvfmt())
	m := int(args[1].AsNum())
	if m < 1 {
		m = 1
	}
	if m > len(s) {
		return types.Str("")
	}

	if len(args) < 3 {
		return types.Str(s[m-1:])
	}
	n := int(args[2].AsNum())
	if n <= 0 {
		return types.Str("")
	}
	end := m - 1 + n
	if end > len(s) {
		end = len(s)
	}
	return types.Str(s[m-1 : end])
}

// regexArg resolves a builtin's regex argument: a regex literal yields
// its pattern directly, anything else its evaluated string form.
func (p *Interp) regexArg(expr ast.Expr) (*runtime.Regex, error) {
	pattern, err := p.patternText(expr)
	if err != nil {
		return nil, err
	}
	re, err := p.regex.Get(pattern, p.ignoreCase())
	if err != nil {
		p.runtimeError("invalid regex "+pattern, err.Error())
		return nil, err
	}
	return re, nil
}

// builtinSplit implements split(s, arr [, sep]): clears arr, fills
// arr[1..n] with numeric strings, returns n.
func (p *Interp) builtinSplit(args []ast.Expr) (types.Value, error) {
	if len(args) < 2 {
		p.runtimeError("split", "two arguments required")
		return types.Num(0), nil
	}
	sv, err := p.eval(args[0])
	if err != nil {
		return types.Null(), err
	}
	s := sv.AsStr(p.getConvfmt())

	arrIdent, ok := args[1].(*ast.Ident)
	if !ok {
		p.runtimeError("split", "second argument must be an array")
		return types.Num(0), nil
	}

	var parts []string
	if len(args) < 3 {
		parts = p.splitByFS(s, p.getFS())
	} else {
		parts, err = p.splitWithSep(s, args[2])
		if err != nil {
			return types.Num(0), nil
		}
	}

	arr := p.array(arrIdent.Name)
	for k := range arr {
		delete(arr, k)
	}
	for i, part := range parts {
		arr[types.FormatNum(float64(i+1), "%.6g")] = types.NumStr(part)
	}
	return types.Num(float64(len(parts))), nil
}

// splitWithSep splits by an explicit separator argument: a regex value
// or literal splits as an ERE, " " splits on whitespace, a single
// character splits literally.
func (p *Interp) splitWithSep(s string, sepExpr ast.Expr) ([]string, error) {
	if re, ok := sepExpr.(*ast.RegexLit); ok {
		cre, err := p.regex.Get(re.Pattern, p.ignoreCase())
		if err != nil {
			p.runtimeError("invalid regex "+re.Pattern, err.Error())
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return cre.Split(s, -1), nil
	}
	v, err := p.eval(sepExpr)
	if err != nil {
		return nil, err
	}
	if v.IsRegex() {
		cre, cerr := p.regex.Get(v.Pattern(), p.ignoreCase())
		if cerr != nil {
			p.runtimeError("invalid regex "+v.Pattern(), cerr.Error())
			return nil, cerr
		}
		if s == "" {
			return nil, nil
		}
		return cre.Split(s, -1), nil
	}
	return p.splitByFS(s, v.AsStr(p.getConvfmt())), nil
}

// builtinPatsplit implements patsplit(s, arr [, pat [, seps]]):
// fields are the matches of the pattern (FPAT by default); the
// optional seps array receives the text between matches, seps[0]
// holding the preamble.
func (p *Interp) builtinPatsplit(args []ast.Expr) (types.Value, error) {
	if len(args) < 2 {
		p.runtimeError("patsplit", "two arguments required")
		return types.Num(0), nil
	}
	sv, err := p.eval(args[0])
	if err != nil {
		return types.Null(), err
	}
	s := sv.AsStr(p.getConvfmt())

	arrIdent, ok := args[1].(*ast.Ident)
	if !ok {
		p.runtimeError("patsplit", "second argument must be an array")
		return types.Num(0), nil
	}

	var re *runtime.Regex
	if len(args) >= 3 {
		re, err = p.regexArg(args[2])
	} else {
		re, err = p.regex.Get(p.getFPAT(), p.ignoreCase())
	}
	if err != nil {
		return types.Num(0), nil
	}

	arr := p.array(arrIdent.Name)
	for k := range arr {
		delete(arr, k)
	}
	var seps map[string]types.Value
	if len(args) >= 4 {
		if sepIdent, ok := args[3].(*ast.Ident); ok {
			seps = p.array(sepIdent.Name)
			for k := range seps {
				delete(seps, k)
			}
		}
	}

	locs := re.FindAllStringIndex(s, -1)
	last := 0
	for i, loc := range locs {
		arr[types.FormatNum(float64(i+1), "%.6g")] = types.NumStr(s[loc[0]:loc[1]])
		if seps != nil {
			seps[types.FormatNum(float64(i), "%.6g")] = types.Str(s[last:loc[0]])
		}
		last = loc[1]
	}
	if seps != nil && len(locs) > 0 {
		seps[types.FormatNum(float64(len(locs)), "%.6g")] = types.Str(s[last:])
	}
	return types.Num(float64(len(locs))), nil
}

// builtinSub implements sub and gsub: replace in $0 or the supplied
// lvalue, return the replacement count.
func (p *Interp) builtinSub(fn token.Token, args []ast.Expr) (types.Value, error) {
	if len(args) < 2 {
		p.runtimeError(token.BuiltinName(fn), "two arguments required")
		return types.Num(0), nil
	}
	re, err := p.regexArg(args[0])
	if err != nil {
		return types.Num(0), nil
	}
	replv, err := p.eval(args[1])
	if err != nil {
		return types.Null(), err
	}
	repl := replv.AsStr(p.getConvfmt())

	max := 1
	if fn == token.F_GSUB {
		max = -1
	}

	var current string
	if len(args) >= 3 {
		v, err := p.lvalueRead(args[2])
		if err != nil {
			return types.Null(), err
		}
		current = v.AsStr(p.getConvfmt())
	} else {
		current = p.getRecord()
	}

	result, count := replaceMatches(re, current, repl, max)
	if count > 0 {
		if len(args) >= 3 {
			if err := p.assign(args[2], types.Str(result)); err != nil {
				return types.Null(), err
			}
		} else {
			p.setRecord(result)
		}
	}
	return types.Num(float64(count)), nil
}

// replaceMatches substitutes up to max matches (all when max < 0).
// In the replacement text & stands for the matched text, \& is a
// literal &, and \\ is a literal backslash.
func replaceMatches(re *runtime.Regex, s, repl string, max int) (string, int) {
	locs := re.FindAllStringIndex(s, max)
	if len(locs) == 0 {
		return s, 0
	}

	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(s[last:loc[0]])
		sb.WriteString(expandSubRepl(repl, s[loc[0]:loc[1]]))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String(), len(locs)
}

func expandSubRepl(repl, matched string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		switch {
		case repl[i] == '\\' && i+1 < len(repl) && repl[i+1] == '&':
			sb.WriteByte('&')
			i++
		case repl[i] == '\\' && i+1 < len(repl) && repl[i+1] == '\\':
			sb.WriteByte('\\')
			i++
		case repl[i] == '&':
			sb.WriteString(matched)
		default:
			sb.WriteByte(repl[i])
		}
	}
	return sb.String()
}

// builtinGensub implements gensub(re, repl, how [, target]): replaces
// all matches when how is "g"/"G", otherwise only the how'th match.
// Backreferences \0..\9 refer to the match and its groups. The target
// is not modified; the new string is returned.
func (p *Interp) builtinGensub(args []ast.Expr) (types.Value, error) {
	if len(args) < 3 {
		p.runtimeError("gensub", "three arguments required")
		return types.Str(""), nil
	}
	re, err := p.regexArg(args[0])
	if err != nil {
		// Degrade to the unmodified target
		if len(args) >= 4 {
			v, verr := p.eval(args[3])
			if verr != nil {
				return types.Null(), verr
			}
			return types.Str(v.AsStr(p.getConvfmt())), nil
		}
		return types.Str(p.getRecord()), nil
	}
	replv, err := p.eval(args[1])
	if err != nil {
		return types.Null(), err
	}
	repl := replv.AsStr(p.getConvfmt())
	howv, err := p.eval(args[2])
	if err != nil {
		return types.Null(), err
	}
	how := howv.AsStr(p.getConvfmt())

	var target string
	if len(args) >= 4 {
		v, err := p.eval(args[3])
		if err != nil {
			return types.Null(), err
		}
		target = v.AsStr(p.getConvfmt())
	} else {
		target = p.getRecord()
	}

	global := how == "g" || how == "G"
	nth := 1
	if !global {
		nth = int(howv.AsNum())
		if nth < 1 {
			nth = 1
		}
	}

	locs := re.FindAllStringSubmatchIndex(target, -1)
	var sb strings.Builder
	last := 0
	for i, loc := range locs {
		if !global && i+1 != nth {
			continue
		}
		sb.WriteString(target[last:loc[0]])
		sb.WriteString(expandGensubRepl(repl, target, loc))
		last = loc[1]
	}
	sb.WriteString(target[last:])
	return types.Str(sb.String()), nil
}

// expandGensubRepl expands &, \&, \\ and the \0..\9 backreferences
// against one submatch index vector.
func expandGensubRepl(repl, s string, loc []int) string {
	group := func(n int) string {
		if 2*n+1 >= len(loc) || loc[2*n] < 0 {
			return ""
		}
		return s[loc[2*n]:loc[2*n+1]]
	}

	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '\\' && i+1 < len(repl) {
			next := repl[i+1]
			switch {
			case next >= '0' && next <= '9':
				sb.WriteString(group(int(next - '0')))
				i++
				continue
			case next == '&':
				sb.WriteByte('&')
				i++
				continue
			case next == '\\':
				sb.WriteByte('\\')
				i++
				continue
			}
			sb.WriteByte(c)
			continue
		}
		if c == '&' {
			sb.WriteString(group(0))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// builtinMatch implements match(s, re [, arr]): sets RSTART and
// RLENGTH; the optional array receives the full match in arr[0] and
// the capturing groups in arr[1..g].
func (p *Interp) builtinMatch(args []ast.Expr) (types.Value, error) {
	if len(args) < 2 {
		p.runtimeError("match", "two arguments required")
		return types.Num(0), nil
	}
	sv, err := p.eval(args[0])
	if err != nil {
		return types.Null(), err
	}
	s := sv.AsStr(p.getConvfmt())

	re, err := p.regexArg(args[1])
	if err != nil {
		p.setGlobal("RSTART", types.Num(0))
		p.setGlobal("RLENGTH", types.Num(-1))
		return types.Num(0), nil
	}

	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		p.setGlobal("RSTART", types.Num(0))
		p.setGlobal("RLENGTH", types.Num(-1))
		return types.Num(0), nil
	}

	p.setGlobal("RSTART", types.Num(float64(loc[0]+1)))
	p.setGlobal("RLENGTH", types.Num(float64(loc[1]-loc[0])))

	if len(args) >= 3 {
		if arrIdent, ok := args[2].(*ast.Ident); ok {
			arr := p.array(arrIdent.Name)
			for k := range arr {
				delete(arr, k)
			}
			for g := 0; 2*g+1 < len(loc); g++ {
				if loc[2*g] < 0 {
					continue
				}
				arr[types.FormatNum(float64(g), "%.6g")] = types.Str(s[loc[2*g]:loc[2*g+1]])
			}
		}
	}

	return types.Num(float64(loc[0] + 1)), nil
}

// builtinAsort implements asort and asorti: a new 1..n indexing sorted
// lexicographically on the value (asort) or index (asorti) string
// form. With a dest array the source is preserved.
func (p *Interp) builtinAsort(fn token.Token, args []ast.Expr) (types.Value, error) {
	if len(args) < 1 {
		p.runtimeError(token.BuiltinName(fn), "array argument required")
		return types.Num(0), nil
	}
	srcIdent, ok := args[0].(*ast.Ident)
	if !ok {
		p.runtimeError(token.BuiltinName(fn), "first argument must be an array")
		return types.Num(0), nil
	}
	src := p.array(srcIdent.Name)

	convfmt := p.getConvfmt()
	items := make([]string, 0, len(src))
	if fn == token.F_ASORTI {
		for k := range src {
			items = append(items, k)
		}
	} else {
		for _, v := range src {
			items = append(items, v.AsStr(convfmt))
		}
	}
	sort.Strings(items)

	dest := src
	if len(args) >= 2 {
		destIdent, ok := args[1].(*ast.Ident)
		if !ok {
			p.runtimeError(token.BuiltinName(fn), "second argument must be an array")
			return types.Num(0), nil
		}
		dest = p.array(destIdent.Name)
	}

	for k := range dest {
		delete(dest, k)
	}
	for i, item := range items {
		dest[types.FormatNum(float64(i+1), "%.6g")] = types.Str(item)
	}
	return types.Num(float64(len(items))), nil
}
