package interp

import (
	"strings"

	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// setRecord installs a freshly read (or assigned) record. Fields are
// re-split lazily on the next access.
func (p *Interp) setRecord(record string) {
	p.record = record
	p.recordDirty = true
	p.fieldsDirty = false
	p.cache.valid = false
}

// getRecord returns $0, rebuilding it from the fields when a field was
// assigned since the last build.
func (p *Interp) getRecord() string {
	if p.fieldsDirty {
		p.record = strings.Join(p.fields, p.getOFS())
		p.fieldsDirty = false
	}
	return p.record
}

// ensureFields splits the record if it is dirty. After this call both
// dirty flags may not be simultaneously true.
func (p *Interp) ensureFields() {
	if !p.recordDirty {
		return
	}
	p.recordDirty = false
	p.fields = p.splitRecord(p.record)
	p.globals["NF"] = types.Num(float64(len(p.fields)))
}

// splitRecord splits a record into fields.
// Strategy, in priority order:
//  1. FPAT non-empty: fields are the matches of the FPAT ERE
//  2. FS == " ": split on whitespace runs, outer whitespace trimmed
//  3. single-character FS: split on that literal byte
//  4. otherwise FS is an ERE
//
// In paragraph mode (RS == "") newline is always a field separator.
func (p *Interp) splitRecord(record string) []string {
	if fpat := p.getFPAT(); fpat != "" {
		re, err := p.regex.Get(fpat, p.ignoreCase())
		if err != nil {
			p.runtimeError("FPAT", err.Error())
			return nil
		}
		var fields []string
		for _, loc := range re.FindAllStringIndex(record, -1) {
			fields = append(fields, record[loc[0]:loc[1]])
		}
		return fields
	}

	fs := p.getFS()
	if p.getRS() == "" {
		// Paragraph mode: FS behaves like the ERE [\n\t ]+ for the
		// default separator, and newline always separates fields.
		if fs == " " {
			return strings.FieldsFunc(record, func(r rune) bool {
				return r == ' ' || r == '\t' || r == '\n'
			})
		}
		var fields []string
		for _, line := range strings.Split(record, "\n") {
			fields = append(fields, p.splitByFS(line, fs)...)
		}
		return fields
	}

	return p.splitByFS(record, fs)
}

func (p *Interp) splitByFS(record, fs string) []string {
	switch {
	case fs == " ":
		return strings.Fields(record)
	case record == "":
		return nil
	case len(fs) == 1 && fs != "\\":
		return strings.Split(record, fs)
	default:
		re, err := p.regex.Get(fs, p.ignoreCase())
		if err != nil {
			p.runtimeError("FS", err.Error())
			return []string{record}
		}
		return re.Split(record, -1)
	}
}

// getField returns $n. $0 is the record itself tagged as a numeric
// string; out-of-range and negative indices yield "".
func (p *Interp) getField(n int) types.Value {
	if n == 0 {
		return types.NumStr(p.getRecord())
	}
	if n < 0 {
		p.runtimeError("field access", "attempt to access field with negative index")
		return types.Str("")
	}
	p.ensureFields()
	if n > len(p.fields) {
		return types.Str("")
	}
	return types.NumStr(p.fields[n-1])
}

// setField assigns $n. Assigning $0 re-splits; assigning beyond NF
// extends the field vector with empty strings and updates NF.
// Negative indices are ignored with a diagnostic.
func (p *Interp) setField(n int, value string) {
	if n == 0 {
		p.setRecord(value)
		return
	}
	if n < 0 {
		p.runtimeError("field access", "attempt to assign to field with negative index")
		return
	}
	p.ensureFields()
	for len(p.fields) < n {
		p.fields = append(p.fields, "")
	}
	p.fields[n-1] = value
	p.fieldsDirty = true
	p.globals["NF"] = types.Num(float64(len(p.fields)))
}

// setNF handles direct assignment to NF: truncating discards fields
// and extending adds empty ones; $0 is rebuilt either way.
func (p *Interp) setNF(n int) {
	if n < 0 {
		n = 0
	}
	p.ensureFields()
	for len(p.fields) < n {
		p.fields = append(p.fields, "")
	}
	p.fields = p.fields[:n]
	p.fieldsDirty = true
	p.globals["NF"] = types.Num(float64(n))
	p.cache.valid = false
}

// numFields returns NF, splitting first if needed.
func (p *Interp) numFields() int {
	p.ensureFields()
	return len(p.fields)
}
