package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/token"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func TestProgramStructure(t *testing.T) {
	prog := parseProgram(t, `
BEGIN { x = 1 }
BEGINFILE { f = FILENAME }
/re/ { print }
$1 > 10, /end/ { print $2 }
ENDFILE { }
END { print x }
function add(a, b) { return a + b }
`)

	if len(prog.Begin) != 1 || len(prog.EndBlocks) != 1 {
		t.Errorf("BEGIN/END counts = %d/%d, want 1/1", len(prog.Begin), len(prog.EndBlocks))
	}
	if len(prog.BeginFile) != 1 || len(prog.EndFile) != 1 {
		t.Errorf("BEGINFILE/ENDFILE counts = %d/%d", len(prog.BeginFile), len(prog.EndFile))
	}
	if len(prog.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(prog.Rules))
	}
	if prog.Rules[0].IsRange() {
		t.Error("first rule should not be a range")
	}
	if !prog.Rules[1].IsRange() {
		t.Error("second rule should be a range")
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "add" {
		t.Errorf("functions = %v", prog.Functions)
	}
	if got := prog.Functions[0].Params; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("params = %v", got)
	}
}

func TestRuleWithoutAction(t *testing.T) {
	prog := parseProgram(t, "/x/\n")
	if len(prog.Rules) != 1 || prog.Rules[0].Action != nil {
		t.Fatalf("expected one action-less rule")
	}
}

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		src   string
		check func(e ast.Expr) bool
		desc  string
	}{
		{"1 + 2 * 3", func(e ast.Expr) bool {
			b, ok := e.(*ast.BinaryExpr)
			if !ok || b.Op != token.ADD {
				return false
			}
			r, ok := b.Right.(*ast.BinaryExpr)
			return ok && r.Op == token.MUL
		}, "mul binds tighter than add"},

		{"2 ^ 3 ^ 2", func(e ast.Expr) bool {
			b, ok := e.(*ast.BinaryExpr)
			if !ok || b.Op != token.POW {
				return false
			}
			r, ok := b.Right.(*ast.BinaryExpr)
			return ok && r.Op == token.POW
		}, "pow is right-associative"},

		{"a = b = c", func(e ast.Expr) bool {
			a, ok := e.(*ast.AssignExpr)
			if !ok {
				return false
			}
			_, ok = a.Right.(*ast.AssignExpr)
			return ok
		}, "assignment is right-associative"},

		{`"a" "b" "c"`, func(e ast.Expr) bool {
			c, ok := e.(*ast.ConcatExpr)
			return ok && len(c.Exprs) == 3
		}, "concatenation collects a run"},

		{"x ~ /re/", func(e ast.Expr) bool {
			m, ok := e.(*ast.MatchExpr)
			if !ok || m.Op != token.MATCH {
				return false
			}
			_, ok = m.Pattern.(*ast.RegexLit)
			return ok
		}, "match with regex literal"},

		{"k in arr", func(e ast.Expr) bool {
			in, ok := e.(*ast.InExpr)
			return ok && in.Array.Name == "arr" && len(in.Index) == 1
		}, "in expression"},

		{"(i, j) in arr", func(e ast.Expr) bool {
			in, ok := e.(*ast.InExpr)
			return ok && len(in.Index) == 2
		}, "multi-dim in"},

		{"c ? t : f", func(e ast.Expr) bool {
			_, ok := e.(*ast.TernaryExpr)
			return ok
		}, "ternary"},

		{"$1", func(e ast.Expr) bool {
			_, ok := e.(*ast.FieldExpr)
			return ok
		}, "field"},

		{"a[1, 2]", func(e ast.Expr) bool {
			ix, ok := e.(*ast.IndexExpr)
			return ok && len(ix.Index) == 2
		}, "multi-dim index"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			expr, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr(%q): %v", tt.src, err)
			}
			if !tt.check(expr) {
				t.Errorf("%s: unexpected shape %T", tt.src, expr)
			}
		})
	}
}

func TestGetlineForms(t *testing.T) {
	tests := []struct {
		src       string
		target    bool
		file      bool
		command   bool
		coprocess bool
	}{
		{"getline", false, false, false, false},
		{"getline x", true, false, false, false},
		{`getline < "file"`, false, true, false, false},
		{`getline x < "file"`, true, true, false, false},
		{`"cmd" | getline`, false, false, true, false},
		{`"cmd" | getline x`, true, false, true, false},
		{`"cmd" |& getline`, false, false, true, true},
		{`"cmd" |& getline x`, true, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr(%q): %v", tt.src, err)
			}
			g, ok := expr.(*ast.GetlineExpr)
			if !ok {
				t.Fatalf("expr = %T, want GetlineExpr", expr)
			}
			if (g.Target != nil) != tt.target || (g.File != nil) != tt.file ||
				(g.Command != nil) != tt.command || g.Coprocess != tt.coprocess {
				t.Errorf("getline form mismatch: %+v", g)
			}
		})
	}
}

func TestPrintRedirects(t *testing.T) {
	tests := []struct {
		src      string
		redirect token.Token
	}{
		{`{ print > "f" }`, token.GREATER},
		{`{ print >> "f" }`, token.APPEND},
		{`{ print | "cmd" }`, token.PIPE},
		{`{ print |& "cmd" }`, token.PIPE_BOTH},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			ps := prog.Rules[0].Action.Stmts[0].(*ast.PrintStmt)
			if ps.Redirect != tt.redirect {
				t.Errorf("redirect = %v, want %v", ps.Redirect, tt.redirect)
			}
			if ps.Dest == nil {
				t.Error("missing redirect destination")
			}
		})
	}

	// In print context > is a redirect, inside parens it is comparison
	prog := parseProgram(t, `{ print (a > b) }`)
	ps := prog.Rules[0].Action.Stmts[0].(*ast.PrintStmt)
	if ps.Redirect != token.ILLEGAL {
		t.Error("parenthesized > must not become a redirect")
	}
}

func TestSwitchStmt(t *testing.T) {
	prog := parseProgram(t, `{
	switch ($1) {
	case 1:
		print "one"
		break
	case /re/:
		print "regex"
	default:
		print "other"
	}
}`)
	sw := prog.Rules[0].Action.Stmts[0].(*ast.SwitchStmt)
	if len(sw.Cases) != 3 {
		t.Fatalf("cases = %d, want 3", len(sw.Cases))
	}
	if _, ok := sw.Cases[1].Value.(*ast.RegexLit); !ok {
		t.Errorf("second case should be a regex label, got %T", sw.Cases[1].Value)
	}
	if !sw.Cases[2].Default {
		t.Error("third case should be default")
	}
}

func TestIndirectCall(t *testing.T) {
	expr, err := ParseExpr("@fn(1, 2)")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	call, ok := expr.(*ast.IndirectCallExpr)
	if !ok {
		t.Fatalf("expr = %T, want IndirectCallExpr", expr)
	}
	if len(call.Args) != 2 {
		t.Errorf("args = %d, want 2", len(call.Args))
	}
}

func TestNamespaceQualification(t *testing.T) {
	prog := parseProgram(t, `
@namespace "m"
function f(x) { return g(x) + pi }
@namespace "awk"
BEGIN { print m::f(1) }
`)
	if len(prog.Functions) != 1 {
		t.Fatalf("functions = %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "m::f" {
		t.Errorf("function name = %q, want m::f", fn.Name)
	}
	// Parameters stay unqualified
	if fn.Params[0] != "x" {
		t.Errorf("param = %q, want x", fn.Params[0])
	}

	// The call g(x) inside the namespace qualifies to m::g; pi to m::pi
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryExpr)
	call := bin.Left.(*ast.CallExpr)
	if call.Name != "m::g" {
		t.Errorf("call name = %q, want m::g", call.Name)
	}
	ident := bin.Right.(*ast.Ident)
	if ident.Name != "m::pi" {
		t.Errorf("ident = %q, want m::pi", ident.Name)
	}
}

func TestInclude(t *testing.T) {
	files := map[string]string{
		"lib/util.awk": `function half(x) { return x / 2 }` + "\n" + `@include "more.awk"`,
		"lib/more.awk": `function third(x) { return x / 3 }`,
	}
	reader := func(path string) ([]byte, error) {
		if src, ok := files[path]; ok {
			return []byte(src), nil
		}
		return nil, fmt.Errorf("no such file")
	}

	prog, err := Parse(`@include "lib/util.awk"
BEGIN { print half(6) }`, WithFileReader(reader))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("functions = %d, want 2 (spliced from includes)", len(prog.Functions))
	}
}

func TestIncludeCycle(t *testing.T) {
	files := map[string]string{
		"a.awk": `@include "b.awk"` + "\nfunction fa() { return 1 }",
		"b.awk": `@include "a.awk"` + "\nfunction fb() { return 2 }",
	}
	reader := func(path string) ([]byte, error) {
		for name, src := range files {
			if strings.HasSuffix(path, name) {
				return []byte(src), nil
			}
		}
		return nil, fmt.Errorf("no such file")
	}

	prog, err := Parse(`@include "a.awk"`, WithFileReader(reader))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Cycle is broken silently; both functions arrive exactly once
	if len(prog.Functions) != 2 {
		t.Errorf("functions = %d, want 2", len(prog.Functions))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"{ 1 = 2 }",                // not an lvalue
		"function f(f) {}",         // parameter collides with function name
		"{ if (x }",                // missing paren
		"BEGIN { break }",          // break outside loop
		"{ return 1 }",             // return outside function
		"END { next }",             // next in END
		`{ printf }`,               // printf needs a format
		"{ x = \"abc }",            // unterminated string
		"function f(a, a) { }",     // duplicate parameter
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := Parse(src); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", src)
			}
		})
	}
}

func TestErrorsDoNotRun(t *testing.T) {
	_, err := Parse("{ x = }")
	if err == nil {
		t.Fatal("want error")
	}
	if _, ok := err.(ErrorList); !ok {
		if _, ok := err.(*ParseError); !ok {
			t.Errorf("error type = %T", err)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"3.5", 3.5},
		{"0x10", 16},
		{"017", 15},
		{"08", 8}, // not octal; decimal fallback
		{"1e2", 100},
	}
	for _, tt := range tests {
		expr, err := ParseExpr(tt.src)
		if err != nil {
			t.Fatalf("ParseExpr(%q): %v", tt.src, err)
		}
		lit, ok := expr.(*ast.NumLit)
		if !ok {
			t.Fatalf("expr = %T", expr)
		}
		if lit.Value != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, lit.Value, tt.want)
		}
	}
}
