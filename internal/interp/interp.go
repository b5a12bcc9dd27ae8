// Package interp implements the tree-walking evaluator: the record
// loop, pattern matching, statement execution, expression evaluation,
// and the built-in function library.
package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/RogerWilloughby/awk-interpreter/internal/ast"
	"github.com/RogerWilloughby/awk-interpreter/internal/i18n"
	"github.com/RogerWilloughby/awk-interpreter/internal/runtime"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// Control flow sentinels. Statements report these through their error
// return; each has a well-defined catch point (loops, the record loop,
// the per-file driver, call frames, and Run itself).
var (
	errBreak    = errors.New("break")
	errContinue = errors.New("continue")
	errNext     = errors.New("next")
	errNextFile = errors.New("nextfile")
)

// returnValue carries a function return value up to the call frame.
type returnValue struct {
	value types.Value
}

func (r *returnValue) Error() string { return "return" }

// ExitError carries the status of an exit statement up to Run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit %d", e.Code) }

// Config holds the interpreter's external collaborators and startup
// variable assignments.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Vars are pre-assignments applied before BEGIN (-v var=value).
	Vars map[string]types.Value

	// Args are the input targets; they populate ARGV[1..n].
	Args []string

	// Environ supplies the ENVIRON array; defaults to the process
	// environment when nil.
	Environ []string

	// Gettext is the i18n collaborator; a .mo-backed translator is
	// created when nil.
	Gettext i18n.Catalogs
}

// Interp executes a parsed program. One instance runs one program to
// completion; it is strictly single-threaded.
type Interp struct {
	program *ast.Program

	// Environment: globals, function-call scope stack, function table
	globals map[string]types.Value
	frames  []map[string]types.Value
	funcs   map[string]*ast.FuncDecl

	// Current record and fields, with the two dirty flags of which at
	// most one is set before any access:
	//   recordDirty - $0 was assigned, fields need re-splitting
	//   fieldsDirty - a field was assigned, $0 needs rebuilding
	record      string
	fields      []string
	recordDirty bool
	fieldsDirty bool

	// Cache of the frequently-read special variables; invalidated on
	// every global write and on record reads.
	cache specialCache

	// I/O
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	out      *bufio.Writer // buffered stdout shared with /dev/stdout redirects
	ioman    *runtime.IOManager
	curInput *runtime.RecordReader

	regex   *runtime.RegexCache
	gettext i18n.Catalogs

	// Range pattern activation state, one slot per rule.
	rangeActive []bool

	rng      *rand.Rand
	randSeed float64
	now      func() time.Time

	exitCode int
}

// specialCache holds the last-read string forms of the separator and
// format variables.
type specialCache struct {
	valid      bool
	fs         string
	ofs        string
	ors        string
	rs         string
	subsep     string
	convfmt    string
	ofmt       string
	fpat       string
	ignoreCase bool
}

// New creates an interpreter for the given program.
func New(program *ast.Program, config *Config) *Interp {
	if config == nil {
		config = &Config{}
	}
	p := &Interp{
		program: program,
		globals: make(map[string]types.Value),
		funcs:   make(map[string]*ast.FuncDecl, len(program.Functions)),
		stdin:   config.Stdin,
		stdout:  config.Stdout,
		stderr:  config.Stderr,
		regex:   runtime.NewRegexCache(runtime.DefaultCacheSize),
		gettext: config.Gettext,
		rng:     rand.New(rand.NewSource(0)),
		now:     time.Now,
	}
	if p.stdin == nil {
		p.stdin = os.Stdin
	}
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	if p.stderr == nil {
		p.stderr = os.Stderr
	}
	if p.gettext == nil {
		p.gettext = i18n.NewTranslator()
	}
	p.out = bufio.NewWriter(p.stdout)
	p.ioman = runtime.NewIOManager(p.stdin, p.out, p.stderr)

	p.initSpecialVars(config)

	// Register user functions (last definition wins)
	for _, fn := range program.Functions {
		p.funcs[fn.Name] = fn
	}

	p.rangeActive = make([]bool, len(program.Rules))

	return p
}

// Run executes the program: BEGIN rules, the per-file record loop with
// BEGINFILE/ENDFILE, then END rules, then stream cleanup. The returned
// status is the process exit code.
func (p *Interp) Run() (status int, err error) {
	exited := false

	runStage := func(f func() error) {
		if exited {
			return
		}
		if e := f(); e != nil {
			var exit *ExitError
			if errors.As(e, &exit) {
				p.exitCode = exit.Code
				exited = true
				return
			}
			err = e
			exited = true
		}
	}

	runStage(p.runBegin)
	if err != nil {
		p.cleanup()
		return 2, err
	}

	// The main loop only runs when it can do anything: exit during
	// BEGIN skips straight to END.
	if !exited && (len(p.program.Rules) > 0 || len(p.program.EndBlocks) > 0 ||
		len(p.program.BeginFile) > 0 || len(p.program.EndFile) > 0) {
		runStage(p.runMainLoop)
		if err != nil {
			p.cleanup()
			return 2, err
		}
	}

	// END rules run even after exit; a further exit inside END stops
	// immediately.
	exited = false
	runStage(p.runEnd)
	if err != nil {
		p.cleanup()
		return 2, err
	}

	p.cleanup()
	return p.exitCode, nil
}

func (p *Interp) runBegin() error {
	for _, block := range p.program.Begin {
		if err := p.execBlock(block); err != nil {
			return err
		}
	}
	return nil
}

func (p *Interp) runEnd() error {
	for _, block := range p.program.EndBlocks {
		if err := p.execBlock(block); err != nil {
			return err
		}
	}
	return nil
}

// runMainLoop drives the per-file record loop over the input targets.
func (p *Interp) runMainLoop() error {
	targets := p.inputTargets()
	if len(targets) == 0 {
		// No files: read from stdin
		return p.processInput(runtime.NewRecordReader(p.stdin), "")
	}

	processed := 0
	for _, target := range targets {
		if name, value, ok := splitAssignment(target); ok {
			// Command-line assignments between files take effect when
			// their position is reached.
			p.setGlobal(name, value)
			continue
		}
		processed++

		var reader *runtime.RecordReader
		var file *os.File
		if target == "-" || target == "/dev/stdin" {
			reader = runtime.NewRecordReader(p.stdin)
		} else {
			f, err := os.Open(target)
			if err != nil {
				p.runtimeError("can't open file "+target, err.Error())
				p.exitCode = 2
				continue
			}
			file = f
			reader = runtime.NewRecordReader(file)
		}

		err := p.processInput(reader, target)
		if file != nil {
			file.Close()
		}
		if err != nil {
			return err
		}
	}

	if processed == 0 {
		// Only assignments in ARGV: the main input is still stdin
		return p.processInput(runtime.NewRecordReader(p.stdin), "")
	}
	return nil
}

// processInput runs BEGINFILE rules, the record loop, and ENDFILE
// rules for one input target.
func (p *Interp) processInput(reader *runtime.RecordReader, filename string) error {
	p.setGlobal("FILENAME", types.Str(filename))
	p.setGlobal("FNR", types.Num(0))
	p.curInput = reader

	for _, block := range p.program.BeginFile {
		if err := p.execBlock(block); err != nil {
			if err == errNextFile {
				return p.runEndFile()
			}
			return err
		}
	}

	for {
		record, rt, err := reader.Read(p.getRS())
		if err == io.EOF {
			break
		}
		if err != nil {
			p.runtimeError("read error", err.Error())
			break
		}

		p.setRecord(record)
		p.setGlobal("RT", types.Str(rt))
		p.addToGlobalNum("NR", 1)
		p.addToGlobalNum("FNR", 1)

		if err := p.execRecord(); err != nil {
			if err == errNextFile {
				break
			}
			return err
		}
	}

	p.curInput = nil
	return p.runEndFile()
}

func (p *Interp) runEndFile() error {
	for _, block := range p.program.EndFile {
		if err := p.execBlock(block); err != nil {
			if err == errNextFile {
				continue
			}
			return err
		}
	}
	return nil
}

// execRecord runs every rule against the current record, in source order.
func (p *Interp) execRecord() error {
	for idx, rule := range p.program.Rules {
		matched, err := p.patternMatches(idx, rule)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		if rule.Action == nil {
			// Default action: print $0
			if err := p.printRecord(); err != nil {
				return err
			}
			continue
		}
		if err := p.execBlock(rule.Action); err != nil {
			if err == errNext {
				return nil
			}
			return err
		}
	}
	return nil
}

// patternMatches evaluates a rule's pattern against the current record.
// Range rules keep per-rule activation state: the start match activates
// the rule unless the end also matches the same record, and the end
// match deactivates it after the current record still matches.
func (p *Interp) patternMatches(idx int, rule *ast.Rule) (bool, error) {
	if rule.Pattern == nil {
		return true, nil
	}

	if !rule.IsRange() {
		v, err := p.eval(rule.Pattern)
		if err != nil {
			return false, err
		}
		return v.AsBool(), nil
	}

	if !p.rangeActive[idx] {
		start, err := p.eval(rule.Pattern)
		if err != nil {
			return false, err
		}
		if !start.AsBool() {
			return false, nil
		}
		end, err := p.eval(rule.Pattern2)
		if err != nil {
			return false, err
		}
		if !end.AsBool() {
			p.rangeActive[idx] = true
		}
		return true, nil
	}

	end, err := p.eval(rule.Pattern2)
	if err != nil {
		return false, err
	}
	if end.AsBool() {
		p.rangeActive[idx] = false
	}
	return true, nil
}

// cleanup flushes and releases every open stream; close failures are
// reported but do not change the exit status.
func (p *Interp) cleanup() {
	p.flushStdout()
	for _, err := range p.ioman.CloseAll() {
		p.runtimeError("close", err.Error())
	}
}

// ExitCode returns the status set by an exit statement (0 by default).
func (p *Interp) ExitCode() int {
	return p.exitCode
}

// runtimeError reports a recoverable runtime error in the documented
// "awk: <context>: <detail>" form. Execution continues with a degraded
// result at the call site.
func (p *Interp) runtimeError(context, detail string) {
	fmt.Fprintf(p.stderr, "awk: %s: %s\n", context, detail)
}

// inputTargets returns the input file operands, from config Args at
// startup (mirrored into ARGV).
func (p *Interp) inputTargets() []string {
	argv, ok := p.globals["ARGV"]
	if !ok || !argv.IsArray() {
		return nil
	}
	argc := int(p.globals["ARGC"].AsNum())
	var targets []string
	for i := 1; i < argc; i++ {
		v, ok := argv.Map()[types.FormatNum(float64(i), "%.6g")]
		if !ok {
			continue
		}
		s := v.AsStr(p.getConvfmt())
		if s == "" {
			continue
		}
		targets = append(targets, s)
	}
	return targets
}

// splitAssignment recognizes a "var=value" command-line operand.
// The value is typed like a -v assignment: clean numbers become Number.
func splitAssignment(arg string) (string, types.Value, bool) {
	eq := -1
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '=' {
			eq = i
			break
		}
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > 0 && c >= '0' && c <= '9')) {
			return "", types.Value{}, false
		}
	}
	if eq <= 0 {
		return "", types.Value{}, false
	}
	return arg[:eq], TypedAssignment(arg[eq+1:]), true
}

// TypedAssignment converts a -v style assignment value: text that
// parses cleanly as a number is stored as Number, anything else as String.
func TypedAssignment(value string) types.Value {
	if n, err := types.ParseNum(value); err == nil && value != "" {
		return types.Num(n)
	}
	return types.Str(value)
}
