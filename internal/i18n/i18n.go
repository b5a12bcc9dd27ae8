package i18n

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// DefaultDomain is the textdomain used when TEXTDOMAIN is unset.
const DefaultDomain = "messages"

// Catalogs is the translation interface the interpreter depends on.
// The production implementation loads .mo files; tests substitute stubs.
type Catalogs interface {
	// Bindtextdomain binds domain to a catalog directory. An empty
	// directory queries the current binding. Returns the directory.
	Bindtextdomain(domain, directory string) string

	// Dcgettext returns the translation of msgid in domain/category,
	// or msgid itself if no translation exists.
	Dcgettext(msgid, domain, category string) string

	// Dcngettext returns the plural translation for n, falling back to
	// msgid (n==1) or msgidPlural.
	Dcngettext(msgid, msgidPlural string, n uint64, domain, category string) string
}

// Translator is the .mo-backed Catalogs implementation.
type Translator struct {
	locale      string
	directories map[string]string
	// catalog cache keyed by "domain\x00locale\x00category";
	// nil entries record load failures so they are not retried.
	catalogs map[string]*MoCatalog
}

// NewTranslator creates a Translator using the detected process locale.
func NewTranslator() *Translator {
	return NewTranslatorForLocale(DetectLocale())
}

// NewTranslatorForLocale creates a Translator with an explicit locale.
func NewTranslatorForLocale(locale string) *Translator {
	return &Translator{
		locale:      locale,
		directories: make(map[string]string),
		catalogs:    make(map[string]*MoCatalog),
	}
}

// Locale returns the translator's locale.
func (t *Translator) Locale() string { return t.locale }

// Bindtextdomain binds domain to directory, or queries it when
// directory is empty.
func (t *Translator) Bindtextdomain(domain, directory string) string {
	if directory != "" {
		t.directories[domain] = directory
		// Forget cached catalogs for the rebound domain
		for key := range t.catalogs {
			if strings.HasPrefix(key, domain+"\x00") {
				delete(t.catalogs, key)
			}
		}
	}
	return t.directories[domain]
}

// Dcgettext translates msgid, falling back to msgid itself.
func (t *Translator) Dcgettext(msgid, domain, category string) string {
	if cat := t.catalog(domain, category); cat != nil {
		if s, ok := cat.Gettext(msgid); ok {
			return s
		}
	}
	return msgid
}

// Dcngettext translates a singular/plural pair for count n.
func (t *Translator) Dcngettext(msgid, msgidPlural string, n uint64, domain, category string) string {
	if cat := t.catalog(domain, category); cat != nil {
		if s, ok := cat.Ngettext(msgid, n); ok {
			return s
		}
	}
	if n == 1 {
		return msgid
	}
	return msgidPlural
}

// catalog loads (or returns the cached) catalog for domain/category,
// walking the locale fallback chain: full locale, locale without
// encoding, bare language.
func (t *Translator) catalog(domain, category string) *MoCatalog {
	key := domain + "\x00" + t.locale + "\x00" + category
	if cat, ok := t.catalogs[key]; ok {
		return cat
	}

	dir, ok := t.directories[domain]
	if !ok {
		t.catalogs[key] = nil
		return nil
	}

	for _, loc := range localeChain(t.locale) {
		// Standard gettext path: <dir>/<locale>/<category>/<domain>.mo
		path := filepath.Join(dir, loc, category, domain+".mo")
		if cat, err := LoadMo(path); err == nil {
			t.catalogs[key] = cat
			return cat
		}
	}

	t.catalogs[key] = nil
	return nil
}

// localeChain returns the lookup candidates for a POSIX locale string,
// e.g. "de_DE.UTF-8" -> ["de_DE.UTF-8", "de_DE", "de"].
// The language tag parser canonicalizes odd spellings so that e.g.
// "de-DE" still resolves to "de_DE" and "de".
func localeChain(locale string) []string {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return nil
	}

	var chain []string
	add := func(s string) {
		for _, seen := range chain {
			if seen == s {
				return
			}
		}
		chain = append(chain, s)
	}

	add(locale)

	bare := locale
	if i := strings.IndexByte(bare, '.'); i >= 0 {
		bare = bare[:i]
		add(bare)
	}
	if i := strings.IndexByte(bare, '_'); i >= 0 {
		add(bare[:i])
	}

	// Canonicalize through the language matcher for non-POSIX spellings
	if tag, err := language.Parse(strings.ReplaceAll(bare, "_", "-")); err == nil {
		full := strings.ReplaceAll(tag.String(), "-", "_")
		add(full)
		base, conf := tag.Base()
		if conf != language.No {
			add(base.String())
		}
	}

	return chain
}

// DetectLocale resolves the process locale from the POSIX environment
// chain: LANGUAGE, LC_ALL, LC_MESSAGES, LANG.
func DetectLocale() string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			// LANGUAGE may hold a colon-separated priority list
			if i := strings.IndexByte(v, ':'); i >= 0 {
				v = v[:i]
			}
			return v
		}
	}
	return "C"
}
