// Package i18n implements the gettext collaborator: binary .mo catalog
// loading, textdomain binding, and locale detection. The interpreter
// talks to it only through the Catalogs interface, so tests can
// substitute a stub.
package i18n

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// moMagic is the GNU .mo magic number (little-endian layout).
const moMagic = 0x950412de

// pluralFunc maps n to a plural form index.
type pluralFunc func(n uint64) int

// defaultPlural is the Germanic rule: singular only for n == 1.
func defaultPlural(n uint64) int {
	if n != 1 {
		return 1
	}
	return 0
}

// MoCatalog is one loaded .mo translation catalog.
type MoCatalog struct {
	translations map[string]string
	plurals      map[string][]string
	nplurals     int
	pluralFn     pluralFunc
	charset      string
}

// LoadMo reads a GNU .mo file. Both byte orders are accepted.
func LoadMo(path string) (*MoCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMo(data)
}

// ParseMo parses .mo catalog bytes.
//
// Layout: magic, revision, count, originals table offset, translations
// table offset; each table is count pairs of (length, offset).
func ParseMo(data []byte) (*MoCatalog, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("mo: file too short")
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case moMagic:
		// little-endian
	default:
		if binary.BigEndian.Uint32(data[0:4]) != moMagic {
			return nil, fmt.Errorf("mo: bad magic")
		}
		order = binary.BigEndian
	}

	count := order.Uint32(data[8:12])
	origOff := order.Uint32(data[12:16])
	transOff := order.Uint32(data[16:20])

	readString := func(table uint32, i uint32) (string, error) {
		entry := table + i*8
		if int(entry)+8 > len(data) {
			return "", fmt.Errorf("mo: truncated string table")
		}
		length := order.Uint32(data[entry : entry+4])
		offset := order.Uint32(data[entry+4 : entry+8])
		if int(offset)+int(length) > len(data) {
			return "", fmt.Errorf("mo: string out of range")
		}
		return string(data[offset : offset+length]), nil
	}

	cat := &MoCatalog{
		translations: make(map[string]string, count),
		plurals:      make(map[string][]string),
		nplurals:     2,
		pluralFn:     defaultPlural,
		charset:      "UTF-8",
	}

	for i := uint32(0); i < count; i++ {
		msgid, err := readString(origOff, i)
		if err != nil {
			return nil, err
		}
		msgstr, err := readString(transOff, i)
		if err != nil {
			return nil, err
		}

		if msgid == "" {
			cat.parseHeader(msgstr)
			continue
		}

		// A NUL in the msgid marks a plural entry: msgid\0msgid_plural,
		// with the forms NUL-separated on the translation side.
		if sep := strings.IndexByte(msgid, 0); sep >= 0 {
			singular := msgid[:sep]
			cat.plurals[singular] = strings.Split(msgstr, "\x00")
			// The singular form also resolves plain gettext lookups.
			if forms := cat.plurals[singular]; len(forms) > 0 {
				cat.translations[singular] = forms[0]
			}
			continue
		}

		cat.translations[msgid] = msgstr
	}

	return cat, nil
}

// Gettext returns the translation for msgid, or "" and false.
func (c *MoCatalog) Gettext(msgid string) (string, bool) {
	s, ok := c.translations[msgid]
	return s, ok
}

// Ngettext returns the plural form translation for n, or "" and false.
func (c *MoCatalog) Ngettext(msgid string, n uint64) (string, bool) {
	forms, ok := c.plurals[msgid]
	if !ok || len(forms) == 0 {
		return "", false
	}
	idx := c.pluralFn(n)
	if idx < 0 || idx >= len(forms) {
		idx = 0
	}
	return forms[idx], true
}

// Charset returns the catalog charset from its header metadata.
func (c *MoCatalog) Charset() string {
	return c.charset
}

// parseHeader extracts charset and plural rules from the empty-msgid
// metadata entry.
func (c *MoCatalog) parseHeader(header string) {
	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "Content-Type:"):
			if i := strings.Index(line, "charset="); i >= 0 {
				c.charset = strings.TrimSpace(line[i+len("charset="):])
			}
		case strings.HasPrefix(line, "Plural-Forms:"):
			c.parsePluralForms(strings.TrimSpace(line[len("Plural-Forms:"):]))
		}
	}
}

// parsePluralForms handles "nplurals=N; plural=EXPR;" for the common
// plural families; anything unrecognized keeps the default rule.
func (c *MoCatalog) parsePluralForms(spec string) {
	if i := strings.Index(spec, "nplurals="); i >= 0 {
		rest := spec[i+len("nplurals="):]
		j := 0
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if n, err := strconv.Atoi(rest[:j]); err == nil && n > 0 {
			c.nplurals = n
		}
	}

	i := strings.Index(spec, "plural=")
	if i < 0 {
		return
	}
	expr := spec[i+len("plural="):]
	if j := strings.IndexByte(expr, ';'); j >= 0 {
		expr = expr[:j]
	}
	expr = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, expr)

	switch {
	case expr == "0":
		// Asian languages: no plural distinction
		c.pluralFn = func(uint64) int { return 0 }
	case expr == "n!=1" || expr == "(n!=1)":
		c.pluralFn = defaultPlural
	case expr == "n>1" || expr == "(n>1)":
		// French, Brazilian Portuguese
		c.pluralFn = func(n uint64) int {
			if n > 1 {
				return 1
			}
			return 0
		}
	case strings.Contains(expr, "n%10==1") && strings.Contains(expr, "n%100"):
		// Slavic family (Russian, Ukrainian, ...)
		c.pluralFn = func(n uint64) int {
			if n%10 == 1 && n%100 != 11 {
				return 0
			}
			if n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20) {
				return 1
			}
			return 2
		}
	}
}
