package ast

import "github.com/RogerWilloughby/awk-interpreter/internal/token"

// Program represents a complete AWK program.
// An AWK program consists of:
//   - BEGIN / END blocks (before and after all input)
//   - BEGINFILE / ENDFILE blocks (around each input file, gawk extension)
//   - Pattern-action rules, executed per input record
//   - User-defined functions
type Program struct {
	// Source file name (for error messages)
	Filename string

	// BEGIN blocks, executed in order before any input processing.
	Begin []*BlockStmt

	// EndBlocks are executed in order after all input is processed.
	// Named EndBlocks to avoid conflict with End() method.
	EndBlocks []*BlockStmt

	// BeginFile blocks run before each input file's record loop.
	BeginFile []*BlockStmt

	// EndFile blocks run after each input file's record loop.
	EndFile []*BlockStmt

	// Pattern-action rules, executed in order for each input record.
	Rules []*Rule

	// User-defined function declarations.
	Functions []*FuncDecl

	// Position information for the entire program.
	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the program.
func (p *Program) Pos() token.Position { return p.StartPos }

// End returns the position after the last token in the program.
func (p *Program) End() token.Position { return p.EndPos }

// Rule represents a pattern-action rule.
// Examples:
//   - { print }                    -> Pattern is nil (matches all records)
//   - /regex/ { print }            -> Pattern is *RegexLit
//   - $1 > 100 { print $2 }        -> Pattern is *BinaryExpr
//   - /start/,/end/ { print }      -> range: Pattern and Pattern2 both set
type Rule struct {
	// Pattern expression that determines if the action runs.
	// nil means the rule matches every record.
	Pattern Expr

	// Pattern2 is the end pattern of a range; nil for non-range rules.
	// Range activation state lives in the interpreter, keyed by rule index.
	Pattern2 Expr

	// Action to execute when pattern matches.
	// nil means default action: { print $0 }
	Action *BlockStmt

	// Position information
	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the rule.
func (r *Rule) Pos() token.Position { return r.StartPos }

// End returns the position after the last token in the rule.
func (r *Rule) End() token.Position { return r.EndPos }

// IsRange returns true for two-pattern range rules.
func (r *Rule) IsRange() bool { return r.Pattern2 != nil }

// FuncDecl represents a user-defined function declaration.
// Example: function add(a, b) { return a + b }
//
// AWK functions have these characteristics:
//   - Scalar parameters are passed by value, arrays by reference
//   - Local variables are declared as extra trailing parameters
//   - Functions can access and modify global variables
type FuncDecl struct {
	// Function name (possibly namespace-qualified)
	Name string

	// Parameter names; callers may pass fewer arguments, the
	// remainder start out uninitialized and act as locals.
	Params []string

	// Function body
	Body *BlockStmt

	// Position information
	StartPos token.Position
	EndPos   token.Position

	// Name position for error messages
	NamePos token.Position
}

// Pos returns the position of the first token in the declaration.
func (f *FuncDecl) Pos() token.Position { return f.StartPos }

// End returns the position after the last token in the declaration.
func (f *FuncDecl) End() token.Position { return f.EndPos }

// -----------------------------------------------------------------------------
// Compile-time checks
// -----------------------------------------------------------------------------

var (
	_ Node = (*Program)(nil)
	_ Node = (*Rule)(nil)
	_ Node = (*FuncDecl)(nil)
)
