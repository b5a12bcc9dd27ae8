package interp

import (
	"strings"
	"testing"

	"github.com/RogerWilloughby/awk-interpreter/internal/parser"
	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// newTestInterp parses a program and builds an interpreter over the
// given input, capturing output in the returned builder.
func newTestInterp(t *testing.T, src, input string) (*Interp, *strings.Builder) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out strings.Builder
	p := New(prog, &Config{
		Stdin:  strings.NewReader(input),
		Stdout: &out,
		Stderr: &strings.Builder{},
	})
	return p, &out
}

func TestFieldDirtyFlags(t *testing.T) {
	p, _ := newTestInterp(t, "{ }", "")

	p.setRecord("a b c")
	if !p.recordDirty || p.fieldsDirty {
		t.Fatal("after setRecord only recordDirty should be set")
	}

	// Reading NF forces the split and clears recordDirty
	if n := p.numFields(); n != 3 {
		t.Fatalf("numFields = %d, want 3", n)
	}
	if p.recordDirty || p.fieldsDirty {
		t.Fatal("after split both flags should be clear")
	}

	// Writing a field dirties the record side only
	p.setField(2, "X")
	if p.recordDirty || !p.fieldsDirty {
		t.Fatal("after setField only fieldsDirty should be set")
	}
	if got := p.getRecord(); got != "a X c" {
		t.Errorf("record = %q, want %q", got, "a X c")
	}
	if p.fieldsDirty {
		t.Error("getRecord should clear fieldsDirty")
	}
}

func TestFieldExtension(t *testing.T) {
	p, _ := newTestInterp(t, "{ }", "")
	p.setRecord("a")
	p.setField(4, "z")

	// Intermediate fields are empty and NF tracks the extension
	if got := p.getField(2).AsStr("%.6g"); got != "" {
		t.Errorf("$2 = %q, want empty", got)
	}
	if got := p.getField(3).AsStr("%.6g"); got != "" {
		t.Errorf("$3 = %q, want empty", got)
	}
	if nf := int(p.globals["NF"].AsNum()); nf != 4 {
		t.Errorf("NF = %d, want 4", nf)
	}
	if len(p.fields) != int(p.globals["NF"].AsNum()) {
		t.Error("NF must equal the field vector length")
	}
}

func TestSetNF(t *testing.T) {
	p, _ := newTestInterp(t, "{ }", "")
	p.setRecord("a b c d")
	p.setNF(2)
	if got := p.getRecord(); got != "a b" {
		t.Errorf("truncated record = %q, want %q", got, "a b")
	}
	p.setNF(4)
	if got := p.getRecord(); got != "a b  " {
		t.Errorf("extended record = %q, want %q", got, "a b  ")
	}
}

func TestGetFieldOutOfRange(t *testing.T) {
	p, _ := newTestInterp(t, "{ }", "")
	p.setRecord("a b")
	if got := p.getField(7); got.AsStr("%.6g") != "" {
		t.Errorf("$7 = %q, want empty", got.AsStr("%.6g"))
	}
	if got := p.getField(-2); got.AsStr("%.6g") != "" {
		t.Errorf("$-2 = %q, want empty", got.AsStr("%.6g"))
	}
	// Out-of-range reads must not extend the vector
	if n := p.numFields(); n != 2 {
		t.Errorf("NF = %d, want 2", n)
	}
}

func TestSprintf(t *testing.T) {
	p, _ := newTestInterp(t, "{ }", "")
	tests := []struct {
		format string
		args   []types.Value
		want   string
	}{
		{"%d", []types.Value{types.Num(42)}, "42"},
		{"%5.1f", []types.Value{types.Num(3.14159)}, "  3.1"},
		{"%-4d|", []types.Value{types.Num(7)}, "7   |"},
		{"%s=%d", []types.Value{types.Str("n"), types.Num(1)}, "n=1"},
		{"%x %X %o", []types.Value{types.Num(255), types.Num(255), types.Num(8)}, "ff FF 10"},
		{"%c", []types.Value{types.Num(65)}, "A"},
		{"%c", []types.Value{types.Str("xyz")}, "x"},
		{"%%", nil, "%"},
		{"%*d", []types.Value{types.Num(4), types.Num(9)}, "   9"},
		{"%u", []types.Value{types.Num(7)}, "7"},
		{"plain", nil, "plain"},
		{"%d", nil, "0"}, // missing argument formats as zero
	}
	for _, tt := range tests {
		if got := p.sprintf(tt.format, tt.args); got != tt.want {
			t.Errorf("sprintf(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestTypedAssignment(t *testing.T) {
	if v := TypedAssignment("42"); !v.IsNum() || v.AsNum() != 42 {
		t.Errorf("TypedAssignment(42) = %v", v)
	}
	if v := TypedAssignment("4x2"); !v.IsStr() {
		t.Errorf("TypedAssignment(4x2) = %v", v)
	}
	if v := TypedAssignment(""); !v.IsStr() {
		t.Errorf("TypedAssignment(empty) = %v", v)
	}
}

func TestSplitAssignmentRecognition(t *testing.T) {
	name, v, ok := splitAssignment("count=3")
	if !ok || name != "count" || v.AsNum() != 3 {
		t.Errorf("splitAssignment(count=3) = %q, %v, %v", name, v, ok)
	}
	if _, _, ok := splitAssignment("plain.txt"); ok {
		t.Error("file names must not be taken for assignments")
	}
	if _, _, ok := splitAssignment("=x"); ok {
		t.Error("missing name must not parse")
	}
	if _, _, ok := splitAssignment("1x=3"); ok {
		t.Error("names cannot start with a digit")
	}
}

func TestRangeState(t *testing.T) {
	p, out := newTestInterp(t, `/on/,/off/ { print $0 }`, "a\non\nmid\noff\nb\non\noff2\n")
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "on\nmid\noff\non\noff2\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRangeSingleRecord(t *testing.T) {
	// Start and end matching the same record fire once, staying inactive
	p, out := newTestInterp(t, `/x/,/x/ { print "hit" }`, "x\nother\n")
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "hit\n" {
		t.Errorf("output = %q, want %q", out.String(), "hit\n")
	}
}

func TestNamespaceFallbackResolution(t *testing.T) {
	if got := resolveName("m::NR"); got != "NR" {
		t.Errorf("resolveName(m::NR) = %q, want NR", got)
	}
	if got := resolveName("m::custom"); got != "m::custom" {
		t.Errorf("resolveName(m::custom) = %q", got)
	}
	if got := resolveName("plain"); got != "plain" {
		t.Errorf("resolveName(plain) = %q", got)
	}
}

func TestStrftimeDirectives(t *testing.T) {
	p, out := newTestInterp(t, `BEGIN { print strftime("%Y/%m/%d %H:%M:%S", 0) }`, "")
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Epoch zero in local time still formats with all fields populated
	got := strings.TrimSpace(out.String())
	if len(got) != len("1970/01/01 00:00:00") {
		t.Errorf("strftime output %q has unexpected shape", got)
	}
}

func TestExitCodePropagation(t *testing.T) {
	p, _ := newTestInterp(t, `BEGIN { exit 7 }`, "")
	status, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != 7 {
		t.Errorf("status = %d, want 7", status)
	}
}
