package runtime

import "testing"

func TestCompileAndMatch(t *testing.T) {
	re, err := Compile("a+b", false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("xxaab") {
		t.Error("expected match")
	}
	if re.MatchString("xyz") {
		t.Error("unexpected match")
	}
	if re.Pattern() != "a+b" {
		t.Errorf("Pattern() = %q", re.Pattern())
	}
}

func TestDotMatchesNewline(t *testing.T) {
	re := MustCompile("a.b")
	if !re.MatchString("a\nb") {
		t.Error("AWK dot should match newline")
	}
}

func TestIgnoreCase(t *testing.T) {
	re, err := Compile("hello", true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("say HELLO there") {
		t.Error("case-insensitive match failed")
	}

	sensitive, _ := Compile("hello", false)
	if sensitive.MatchString("HELLO") {
		t.Error("case-sensitive regex matched wrong case")
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := Compile("a[", false); err == nil {
		t.Error("expected compile error")
	}
}

func TestSplit(t *testing.T) {
	re := MustCompile(",+")
	parts := re.Split("a,b,,c", -1)
	want := []string{"a", "b", "c"}
	if len(parts) != len(want) {
		t.Fatalf("parts = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("parts[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestCacheHit(t *testing.T) {
	cache := NewRegexCache(4)
	re1, err := cache.Get("x+", false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	re2, _ := cache.Get("x+", false)
	if re1 != re2 {
		t.Error("second Get should hit the cache")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCacheKeyIncludesFlags(t *testing.T) {
	cache := NewRegexCache(4)
	plain, _ := cache.Get("abc", false)
	caseless, _ := cache.Get("abc", true)
	if plain == caseless {
		t.Error("flag change must yield a distinct compiled entry")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewRegexCache(2)
	cache.Get("a", false)
	cache.Get("b", false)
	cache.Get("c", false)
	if cache.Len() > 2 {
		t.Errorf("Len() = %d, want <= 2", cache.Len())
	}
}

func TestCacheError(t *testing.T) {
	cache := NewRegexCache(4)
	if _, err := cache.Get("(", false); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if cache.Len() != 0 {
		t.Errorf("failed compiles must not be cached, Len() = %d", cache.Len())
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewRegexCache(4)
	cache.Get("a", false)
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d", cache.Len())
	}
}
