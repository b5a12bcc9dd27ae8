package types

import (
	"math"
	"testing"
)

func TestValueConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"Null", Null(), KindNull},
		{"Num(0)", Num(0), KindNum},
		{"Num(42)", Num(42), KindNum},
		{"Num(-3.14)", Num(-3.14), KindNum},
		{"Str empty", Str(""), KindStr},
		{"Str hello", Str("hello"), KindStr},
		{"NumStr", NumStr("123"), KindNumStr},
		{"Regex", Regex("a+"), KindRegex},
		{"Array", Array(), KindArray},
		{"Bool true", Bool(true), KindNum},
		{"Bool false", Bool(false), KindNum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}
}

func TestAsNum(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"null", Null(), 0},
		{"num", Num(3.5), 3.5},
		{"int string", Str("42"), 42},
		{"float string", Str("3.14"), 3.14},
		{"prefix", Str("10abc"), 10},
		{"leading space", Str("  7"), 7},
		{"sign", Str("-5"), -5},
		{"exponent", Str("1e3"), 1000},
		{"hex", Str("0x10"), 16},
		{"garbage", Str("abc"), 0},
		{"empty", Str(""), 0},
		{"numstr", NumStr("6"), 6},
		{"array", Array(), 0},
		{"regex", Regex("x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsNum(); got != tt.want {
				t.Errorf("AsNum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsStr(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"integer num", Num(42), "42"},
		{"negative", Num(-7), "-7"},
		{"float", Num(3.5), "3.5"},
		{"convfmt", Num(1.0 / 3.0), "0.333333"},
		{"string", Str("x"), "x"},
		{"numstr keeps text", NumStr("007"), "007"},
		{"regex yields pattern", Regex("a+b"), "a+b"},
		{"array yields empty", Array(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsStr("%.6g"); got != tt.want {
				t.Errorf("AsStr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"zero", Num(0), false},
		{"nonzero", Num(0.1), true},
		{"empty string", Str(""), false},
		{"nonempty string", Str("0"), true}, // true string "0" is non-empty
		{"numstr zero", NumStr("0"), false},
		{"numstr nonzero", NumStr("2"), true},
		{"numstr text", NumStr("abc"), true},
		{"regex", Regex("x"), true},
		{"empty array", Array(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsBool(); got != tt.want {
				t.Errorf("AsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"num less", Num(1), Num(2), -1},
		{"num equal", Num(2), Num(2), 0},
		{"num greater", Num(3), Num(2), 1},
		{"strnum numeric", NumStr("10"), NumStr("9"), 1},
		{"strnum vs num", NumStr("10"), Num(10), 0},
		{"string compare", Str("10"), Str("9"), -1},
		{"string vs num uses strings", Str("abc"), Num(1), 1},
		{"null vs zero", Null(), Num(0), 0},
		{"true string strnum", NumStr("10x"), Str("10x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseNum(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{" 42 ", 42, false},
		{"", 0, false},
		{"-3.5", -3.5, false},
		{"1e2", 100, false},
		{"0x1a", 26, false},
		{"10abc", 0, true},
		{"abc", 0, true},
		{"1_0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNum(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNum(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseNum(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if n, err := ParseNum("nan"); err != nil || !math.IsNaN(n) {
		t.Errorf("ParseNum(nan) = %v, %v", n, err)
	}
	if n, err := ParseNum("-inf"); err != nil || !math.IsInf(n, -1) {
		t.Errorf("ParseNum(-inf) = %v, %v", n, err)
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		n      float64
		format string
		want   string
	}{
		{42, "%.6g", "42"},
		{-1, "%.6g", "-1"},
		{2.5, "%.6g", "2.5"},
		{1.0 / 3.0, "%.6g", "0.333333"},
		{1e21, "%.6g", "1e+21"},
		{0.5, "%.2f", "0.50"},
		{math.Inf(1), "%.6g", "inf"},
		{math.NaN(), "%.6g", "nan"},
	}

	for _, tt := range tests {
		if got := FormatNum(tt.n, tt.format); got != tt.want {
			t.Errorf("FormatNum(%v, %q) = %q, want %q", tt.n, tt.format, got, tt.want)
		}
	}
}

func TestRoundTripNumber(t *testing.T) {
	// to_number(to_string(to_number(v))) == to_number(v)
	for _, v := range []Value{Num(0.1), Num(12345.6), Str("42"), NumStr("-3e4")} {
		n := v.AsNum()
		s := Num(n).AsStr("%.6g")
		// Round-trip holds for values CONVFMT can represent exactly
		if Num(n).Kind() != KindNum {
			t.Fatalf("unexpected kind")
		}
		back := Str(s).AsNum()
		if math.Abs(back-n) > math.Abs(n)*1e-6 {
			t.Errorf("round trip %v -> %q -> %v", n, s, back)
		}
	}
}

func TestArrayAliasing(t *testing.T) {
	a := Array()
	a.Map()["k"] = Num(1)
	b := a // copying the Value shares the backing map
	b.Map()["k2"] = Num(2)
	if len(a.Map()) != 2 {
		t.Errorf("expected shared backing map, got %d entries", len(a.Map()))
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "unassigned"},
		{Num(1), "number"},
		{Str("x"), "string"},
		{NumStr("1"), "strnum"},
		{Regex("a"), "regexp"},
		{Array(), "array"},
	}
	for _, tt := range tests {
		if got := tt.v.TypeName(); got != tt.want {
			t.Errorf("TypeName() = %q, want %q", got, tt.want)
		}
	}
}
