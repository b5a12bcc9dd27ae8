package parser

import (
	"os"
	"path/filepath"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/token"
)

// arity describes the argument count a builtin accepts.
type arity struct {
	min, max int // max < 0 means variadic
}

// builtinArity covers the builtins with no special argument shapes.
// The special ones (length, split, sub, gsub, gensub, match, patsplit,
// asort, asorti, isarray) are handled explicitly in parseBuiltinCall.
var builtinArity = map[token.Token]arity{
	token.F_ATAN2:   {2, 2},
	token.F_CLOSE:   {1, 1},
	token.F_COS:     {1, 1},
	token.F_EXP:     {1, 1},
	token.F_FFLUSH:  {0, 1},
	token.F_INDEX:   {2, 2},
	token.F_INT:     {1, 1},
	token.F_LOG:     {1, 1},
	token.F_RAND:    {0, 0},
	token.F_SIN:     {1, 1},
	token.F_SPRINTF: {1, -1},
	token.F_SQRT:    {1, 1},
	token.F_SRAND:   {0, 1},
	token.F_SUBSTR:  {2, 3},
	token.F_SYSTEM:  {1, 1},
	token.F_TOLOWER: {1, 1},
	token.F_TOUPPER: {1, 1},

	token.F_ATAN:  {1, 1},
	token.F_TAN:   {1, 1},
	token.F_ASIN:  {1, 1},
	token.F_ACOS:  {1, 1},
	token.F_SINH:  {1, 1},
	token.F_COSH:  {1, 1},
	token.F_TANH:  {1, 1},
	token.F_LOG10: {1, 1},
	token.F_LOG2:  {1, 1},
	token.F_CEIL:  {1, 1},
	token.F_FLOOR: {1, 1},
	token.F_ROUND: {1, 1},
	token.F_ABS:   {1, 1},
	token.F_FMOD:  {2, 2},
	token.F_POW:   {2, 2},
	token.F_MIN:   {2, -1},
	token.F_MAX:   {2, -1},

	token.F_STRTONUM: {1, 1},
	token.F_ORD:      {1, 1},
	token.F_CHR:      {1, 1},

	token.F_SYSTIME:  {0, 0},
	token.F_MKTIME:   {1, 1},
	token.F_STRFTIME: {0, 2},

	token.F_AND:    {2, -1},
	token.F_OR:     {2, -1},
	token.F_XOR:    {2, -1},
	token.F_LSHIFT: {2, 2},
	token.F_RSHIFT: {2, 2},
	token.F_COMPL:  {1, 1},

	token.F_TYPEOF: {1, 1},
	token.F_MKBOOL: {1, 1},

	token.F_DCGETTEXT:      {1, 3},
	token.F_DCNGETTEXT:     {3, 5},
	token.F_BINDTEXTDOMAIN: {1, 2},
}

// parseBuiltinCall parses a built-in function call.
func (p *Parser) parseBuiltinCall() ast.Expr {
	startPos := p.tok.Pos
	fn := p.tok.Type
	p.next()

	mk := func(args []ast.Expr) *ast.BuiltinExpr {
		return &ast.BuiltinExpr{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Func:     fn,
			Args:     args,
		}
	}

	switch fn {
	case token.F_LENGTH:
		// length can be called without parens; length(arr) counts elements
		var args []ast.Expr
		if p.tok.Type == token.LPAREN && !p.lexer.HadSpace() {
			p.next()
			if p.tok.Type != token.RPAREN {
				args = append(args, p.parseExpr())
			}
			p.expect(token.RPAREN)
		}
		return mk(args)

	case token.F_SPLIT:
		// split(s, arr [, sep])
		p.expect(token.LPAREN)
		str := p.parseExpr()
		p.commaNewlines()
		arr := p.parseArrayArg("second argument to split")
		args := []ast.Expr{str, arr}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = append(args, p.parseExpr())
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_PATSPLIT:
		// patsplit(s, arr [, pat [, seps]])
		p.expect(token.LPAREN)
		str := p.parseExpr()
		p.commaNewlines()
		arr := p.parseArrayArg("second argument to patsplit")
		args := []ast.Expr{str, arr}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = append(args, p.parseExpr())
			if p.tok.Type == token.COMMA {
				p.commaNewlines()
				args = append(args, p.parseArrayArg("fourth argument to patsplit"))
			}
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_SUB, token.F_GSUB:
		// sub(re, repl [, lvalue])
		p.expect(token.LPAREN)
		regex := p.parseExpr()
		p.commaNewlines()
		repl := p.parseExpr()
		args := []ast.Expr{regex, repl}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			target := p.parseExpr()
			if target != nil && !ast.IsLValue(target) {
				p.errorf("third argument to %s must be a variable, field, or array element", token.BuiltinName(fn))
			}
			args = append(args, target)
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_GENSUB:
		// gensub(re, repl, how [, target]); does not modify target
		p.expect(token.LPAREN)
		regex := p.parseExpr()
		p.commaNewlines()
		repl := p.parseExpr()
		p.commaNewlines()
		how := p.parseExpr()
		args := []ast.Expr{regex, repl, how}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = append(args, p.parseExpr())
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_MATCH:
		// match(s, re [, arr])
		p.expect(token.LPAREN)
		str := p.parseExpr()
		p.commaNewlines()
		regex := p.parseExpr()
		args := []ast.Expr{str, regex}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = append(args, p.parseArrayArg("third argument to match"))
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_ASORT, token.F_ASORTI:
		// asort(src [, dest])
		p.expect(token.LPAREN)
		src := p.parseArrayArg("first argument to " + token.BuiltinName(fn))
		args := []ast.Expr{src}
		if p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = append(args, p.parseArrayArg("second argument to "+token.BuiltinName(fn)))
		}
		p.expect(token.RPAREN)
		return mk(args)

	case token.F_ISARRAY:
		p.expect(token.LPAREN)
		arg := p.parseArrayArg("argument to isarray")
		p.expect(token.RPAREN)
		return mk([]ast.Expr{arg})

	default:
		ar, ok := builtinArity[fn]
		if !ok {
			p.errorf("unknown builtin function")
			return nil
		}
		p.expect(token.LPAREN)
		var args []ast.Expr
		first := true
		for !p.match(token.RPAREN, token.EOF) {
			if !first {
				p.commaNewlines()
			}
			first = false
			args = append(args, p.parseExpr())
		}
		p.expect(token.RPAREN)
		if len(args) < ar.min || (ar.max >= 0 && len(args) > ar.max) {
			p.errorf("wrong number of arguments to %s", token.BuiltinName(fn))
		}
		return mk(args)
	}
}

// parseArrayArg parses an argument that must be a bare array name.
func (p *Parser) parseArrayArg(what string) ast.Expr {
	if p.tok.Type != token.NAME {
		p.errorf("%s must be an array name", what)
		// Consume something so parsing can continue
		if !p.match(token.RPAREN, token.COMMA, token.EOF) {
			p.next()
		}
		return nil
	}
	name, namePos := p.expectName()
	return &ast.Ident{
		BaseExpr: ast.MakeBaseExpr(namePos, p.tok.Pos),
		Name:     p.qualify(name),
	}
}

// -----------------------------------------------------------------------------
// @include path helpers
// -----------------------------------------------------------------------------

func osReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func isAbsPath(path string) bool {
	return filepath.IsAbs(path)
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}
