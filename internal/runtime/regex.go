// Package runtime provides regex compilation/caching and the I/O
// registries backing the interpreter.
package runtime

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/coregx/coregex"
)

// dotallPrefix is prepended to patterns for AWK semantics (dot matches newline).
const dotallPrefix = "(?s)"

// caselessPrefix additionally makes matching case-insensitive (IGNORECASE).
const caselessPrefix = "(?si)"

// DefaultCacheSize bounds the compiled-regex cache.
const DefaultCacheSize = 64

// Regex wraps coregex for AWK regex operations.
// POSIX leftmost-longest matching is always enabled (AWK/ERE semantics).
type Regex struct {
	pattern    string
	ignoreCase bool
	re         *coregex.Regexp
}

// Compile creates a new Regex from pattern.
// AWK semantics: dot matches any character including newlines.
func Compile(pattern string, ignoreCase bool) (*Regex, error) {
	prefix := dotallPrefix
	if ignoreCase {
		prefix = caselessPrefix
	}
	re, err := coregex.Compile(prefix + pattern)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return &Regex{pattern: pattern, ignoreCase: ignoreCase, re: re}, nil
}

// MustCompile creates a Regex, panicking on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern, false)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the original pattern string.
func (r *Regex) Pattern() string {
	return r.pattern
}

// IgnoreCase returns true if this regex matches case-insensitively.
func (r *Regex) IgnoreCase() bool {
	return r.ignoreCase
}

// MatchString reports whether s contains any match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringIndex returns the start and end of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.re.FindStringIndex(s)
}

// FindAllStringIndex returns all non-overlapping matches.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.re.FindAllStringIndex(s, n)
}

// FindStringSubmatchIndex returns index pairs for the first match and
// its capturing groups, or nil.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.re.FindStringSubmatchIndex(s)
}

// FindAllStringSubmatchIndex returns index pairs for all matches.
func (r *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	return r.re.FindAllStringSubmatchIndex(s, n)
}

// NumSubexp returns the number of capturing groups.
func (r *Regex) NumSubexp() int {
	return r.re.NumSubexp()
}

// ReplaceAllStringFunc replaces all matches using the function.
func (r *Regex) ReplaceAllStringFunc(s string, f func(string) string) string {
	return r.re.ReplaceAllStringFunc(s, f)
}

// Split slices s into substrings separated by matches.
func (r *Regex) Split(s string, n int) []string {
	return r.re.Split(s, n)
}

// cacheKey identifies a compiled regex: pattern plus flags.
// IGNORECASE toggling changes the key, so stale-flag entries simply
// stop being hit; no flush is required.
type cacheKey struct {
	pattern    string
	ignoreCase bool
}

// RegexCache provides bounded compiled-regex caching keyed by
// (pattern, flags), with LRU eviction.
type RegexCache struct {
	cache *lru.Cache
}

// NewRegexCache creates a cache with the specified max size.
func NewRegexCache(maxSize int) *RegexCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c, err := lru.New(maxSize)
	if err != nil {
		// lru.New only fails for non-positive sizes
		panic(err)
	}
	return &RegexCache{cache: c}
}

// Get returns a compiled regex, compiling and caching if needed.
func (c *RegexCache) Get(pattern string, ignoreCase bool) (*Regex, error) {
	key := cacheKey{pattern: pattern, ignoreCase: ignoreCase}
	if re, ok := c.cache.Get(key); ok {
		return re.(*Regex), nil
	}

	re, err := Compile(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, re)
	return re, nil
}

// MustGet returns a compiled regex, panicking on error.
func (c *RegexCache) MustGet(pattern string, ignoreCase bool) *Regex {
	re, err := c.Get(pattern, ignoreCase)
	if err != nil {
		panic(err)
	}
	return re
}

// Len returns the number of cached regexes.
func (c *RegexCache) Len() int {
	return c.cache.Len()
}

// Clear removes all cached regexes.
func (c *RegexCache) Clear() {
	c.cache.Purge()
}
