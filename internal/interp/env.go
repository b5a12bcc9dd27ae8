package interp

import (
	"os"
	"strings"

	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// specialVars are the built-in variables that namespace-qualified
// lookups fall back to: m::NR transparently reads the global NR.
var specialVars = map[string]bool{
	"NR": true, "NF": true, "FNR": true, "FILENAME": true,
	"FS": true, "RS": true, "OFS": true, "ORS": true,
	"SUBSEP": true, "CONVFMT": true, "OFMT": true,
	"RSTART": true, "RLENGTH": true, "IGNORECASE": true,
	"RT": true, "FPAT": true, "TEXTDOMAIN": true,
	"ARGC": true, "ARGV": true, "ENVIRON": true,
	"SYMTAB": true, "FUNCTAB": true,
}

// initSpecialVars populates the global scope with the POSIX and gawk
// special variables, ARGV/ARGC, ENVIRON, and the -v pre-assignments.
func (p *Interp) initSpecialVars(config *Config) {
	p.globals["FS"] = types.Str(" ")
	p.globals["OFS"] = types.Str(" ")
	p.globals["ORS"] = types.Str("\n")
	p.globals["RS"] = types.Str("\n")
	p.globals["NR"] = types.Num(0)
	p.globals["NF"] = types.Num(0)
	p.globals["FNR"] = types.Num(0)
	p.globals["FILENAME"] = types.Str("")
	p.globals["SUBSEP"] = types.Str("\x1c")
	p.globals["CONVFMT"] = types.Str("%.6g")
	p.globals["OFMT"] = types.Str("%.6g")
	p.globals["RSTART"] = types.Num(0)
	p.globals["RLENGTH"] = types.Num(-1)
	p.globals["IGNORECASE"] = types.Num(0)
	p.globals["RT"] = types.Str("")
	p.globals["FPAT"] = types.Str("")
	p.globals["TEXTDOMAIN"] = types.Str("messages")

	environ := config.Environ
	if environ == nil {
		environ = os.Environ()
	}
	env := types.Array()
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env.Map()[kv[:i]] = types.NumStr(kv[i+1:])
		}
	}
	p.globals["ENVIRON"] = env

	argv := types.Array()
	argv.Map()["0"] = types.Str("awk")
	for i, arg := range config.Args {
		argv.Map()[types.FormatNum(float64(i+1), "%.6g")] = types.NumStr(arg)
	}
	p.globals["ARGV"] = argv
	p.globals["ARGC"] = types.Num(float64(len(config.Args) + 1))

	for name, value := range config.Vars {
		p.setGlobal(name, value)
	}
}

// resolveName applies the namespace fallback: a qualified name whose
// tail is a special built-in variable reads the global unqualified entry.
func resolveName(name string) string {
	if i := strings.Index(name, "::"); i >= 0 {
		if tail := name[i+2:]; specialVars[tail] {
			return tail
		}
	}
	return name
}

// getVar reads a variable: the current call frame first, then globals.
// Caller frames below the top are not visible (AWK scoping).
func (p *Interp) getVar(name string) types.Value {
	name = resolveName(name)
	if len(p.frames) > 0 {
		if v, ok := p.frames[len(p.frames)-1][name]; ok {
			return v
		}
	}
	if name == "NF" {
		// NF reads force field splitting of a dirty record
		p.ensureFields()
	}
	return p.globals[name]
}

// setVar writes a variable: an existing local in the current frame is
// updated in place, otherwise the global is written.
func (p *Interp) setVar(name string, v types.Value) {
	name = resolveName(name)
	if len(p.frames) > 0 {
		frame := p.frames[len(p.frames)-1]
		if _, ok := frame[name]; ok {
			frame[name] = v
			return
		}
	}
	p.setGlobal(name, v)
}

// setGlobal writes a global and applies special-variable side effects.
func (p *Interp) setGlobal(name string, v types.Value) {
	name = resolveName(name)
	if name == "NF" {
		p.setNF(int(v.AsNum()))
		return
	}
	p.globals[name] = v
	p.cache.valid = false
}

// addToGlobalNum increments a numeric global (NR, FNR).
func (p *Interp) addToGlobalNum(name string, delta float64) {
	p.globals[name] = types.Num(p.globals[name].AsNum() + delta)
}

// array returns the backing map of the named array, autovivifying an
// empty array if the name is unbound. A scalar in array position is a
// recoverable type error yielding a fresh throwaway array.
func (p *Interp) array(name string) map[string]types.Value {
	name = resolveName(name)
	if len(p.frames) > 0 {
		frame := p.frames[len(p.frames)-1]
		if v, ok := frame[name]; ok {
			if v.IsArray() {
				return v.Map()
			}
			if v.IsNull() {
				arr := types.Array()
				frame[name] = arr
				return arr.Map()
			}
			p.runtimeError(name, "can't use scalar as array")
			return types.Array().Map()
		}
	}
	if v, ok := p.globals[name]; ok {
		if v.IsArray() {
			return v.Map()
		}
		if !v.IsNull() {
			p.runtimeError(name, "can't use scalar as array")
			return types.Array().Map()
		}
	}
	arr := types.Array()
	p.globals[name] = arr
	return arr.Map()
}

// peekArray returns the named array's backing map without creating
// anything (the "in" operator does not autovivify).
func (p *Interp) peekArray(name string) (map[string]types.Value, bool) {
	name = resolveName(name)
	if len(p.frames) > 0 {
		if v, ok := p.frames[len(p.frames)-1][name]; ok {
			if v.IsArray() {
				return v.Map(), true
			}
			return nil, false
		}
	}
	if v, ok := p.globals[name]; ok && v.IsArray() {
		return v.Map(), true
	}
	return nil, false
}

// refreshCache re-reads the cached special variable string forms.
func (p *Interp) refreshCache() {
	convfmt := p.globals["CONVFMT"].AsStr("%.6g")
	if convfmt == "" {
		convfmt = "%.6g"
	}
	p.cache = specialCache{
		valid:      true,
		fs:         p.globals["FS"].AsStr(convfmt),
		ofs:        p.globals["OFS"].AsStr(convfmt),
		ors:        p.globals["ORS"].AsStr(convfmt),
		rs:         p.globals["RS"].AsStr(convfmt),
		subsep:     p.globals["SUBSEP"].AsStr(convfmt),
		convfmt:    convfmt,
		ofmt:       p.globals["OFMT"].AsStr(convfmt),
		fpat:       p.globals["FPAT"].AsStr(convfmt),
		ignoreCase: p.globals["IGNORECASE"].AsBool(),
	}
	if p.cache.ofmt == "" {
		p.cache.ofmt = "%.6g"
	}
}

func (p *Interp) getFS() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.fs
}

func (p *Interp) getOFS() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.ofs
}

func (p *Interp) getORS() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.ors
}

func (p *Interp) getRS() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.rs
}

func (p *Interp) getSubsep() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.subsep
}

func (p *Interp) getConvfmt() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.convfmt
}

func (p *Interp) getOfmt() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.ofmt
}

func (p *Interp) getFPAT() string {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.fpat
}

func (p *Interp) ignoreCase() bool {
	if !p.cache.valid {
		p.refreshCache()
	}
	return p.cache.ignoreCase
}
