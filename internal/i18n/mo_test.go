package i18n

import (
	"encoding/binary"
	"testing"
)

// buildMo assembles a minimal little-endian .mo catalog.
func buildMo(entries map[string]string) []byte {
	// Deterministic order is not required by the format
	var ids, strs []string
	for id, str := range entries {
		ids = append(ids, id)
		strs = append(strs, str)
	}

	n := len(ids)
	headerSize := 28
	origTable := headerSize
	transTable := origTable + n*8
	stringsStart := transTable + n*8

	var stringData []byte
	origEntries := make([][2]uint32, n)
	transEntries := make([][2]uint32, n)
	for i := 0; i < n; i++ {
		origEntries[i] = [2]uint32{uint32(len(ids[i])), uint32(stringsStart + len(stringData))}
		stringData = append(stringData, ids[i]...)
		stringData = append(stringData, 0)
	}
	for i := 0; i < n; i++ {
		transEntries[i] = [2]uint32{uint32(len(strs[i])), uint32(stringsStart + len(stringData))}
		stringData = append(stringData, strs[i]...)
		stringData = append(stringData, 0)
	}

	buf := make([]byte, stringsStart)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], moMagic)
	le.PutUint32(buf[4:], 0)               // revision
	le.PutUint32(buf[8:], uint32(n))       // count
	le.PutUint32(buf[12:], uint32(origTable))
	le.PutUint32(buf[16:], uint32(transTable))
	for i, e := range origEntries {
		le.PutUint32(buf[origTable+i*8:], e[0])
		le.PutUint32(buf[origTable+i*8+4:], e[1])
	}
	for i, e := range transEntries {
		le.PutUint32(buf[transTable+i*8:], e[0])
		le.PutUint32(buf[transTable+i*8+4:], e[1])
	}
	return append(buf, stringData...)
}

func TestParseMo(t *testing.T) {
	data := buildMo(map[string]string{
		"hello": "hallo",
	})
	cat, err := ParseMo(data)
	if err != nil {
		t.Fatalf("ParseMo: %v", err)
	}
	if s, ok := cat.Gettext("hello"); !ok || s != "hallo" {
		t.Errorf("Gettext(hello) = %q, %v", s, ok)
	}
	if _, ok := cat.Gettext("missing"); ok {
		t.Error("unexpected translation for missing msgid")
	}
}

func TestParseMoBadMagic(t *testing.T) {
	data := []byte{1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := ParseMo(data); err == nil {
		t.Error("expected bad magic error")
	}
}

func TestParseMoTooShort(t *testing.T) {
	if _, err := ParseMo([]byte{0x95}); err == nil {
		t.Error("expected error for truncated data")
	}
}

func TestPluralForms(t *testing.T) {
	data := buildMo(map[string]string{
		"":             "Content-Type: text/plain; charset=UTF-8\nPlural-Forms: nplurals=2; plural=n != 1;\n",
		"file\x00files": "Datei\x00Dateien",
	})
	cat, err := ParseMo(data)
	if err != nil {
		t.Fatalf("ParseMo: %v", err)
	}
	if cat.Charset() != "UTF-8" {
		t.Errorf("Charset() = %q", cat.Charset())
	}
	if s, ok := cat.Ngettext("file", 1); !ok || s != "Datei" {
		t.Errorf("Ngettext(1) = %q, %v", s, ok)
	}
	if s, ok := cat.Ngettext("file", 3); !ok || s != "Dateien" {
		t.Errorf("Ngettext(3) = %q, %v", s, ok)
	}
	// The singular resolves plain gettext too
	if s, ok := cat.Gettext("file"); !ok || s != "Datei" {
		t.Errorf("Gettext(file) = %q, %v", s, ok)
	}
}

func TestSlavicPlural(t *testing.T) {
	cat := &MoCatalog{nplurals: 2, pluralFn: defaultPlural}
	cat.parsePluralForms("nplurals=3; plural=n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2;")
	if cat.nplurals != 3 {
		t.Errorf("nplurals = %d, want 3", cat.nplurals)
	}
	tests := []struct {
		n    uint64
		want int
	}{
		{1, 0}, {21, 0}, {2, 1}, {4, 1}, {5, 2}, {11, 2}, {12, 2},
	}
	for _, tt := range tests {
		if got := cat.pluralFn(tt.n); got != tt.want {
			t.Errorf("plural(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestLocaleChain(t *testing.T) {
	chain := localeChain("de_DE.UTF-8")
	found := map[string]bool{}
	for _, loc := range chain {
		found[loc] = true
	}
	for _, want := range []string{"de_DE.UTF-8", "de_DE", "de"} {
		if !found[want] {
			t.Errorf("chain %v missing %q", chain, want)
		}
	}

	if localeChain("C") != nil {
		t.Error("C locale should produce no candidates")
	}
}

// stubCatalogs substitutes the gettext collaborator in interpreter tests.
type stubCatalogs struct {
	translations map[string]string
}

func (s *stubCatalogs) Bindtextdomain(domain, directory string) string { return directory }

func (s *stubCatalogs) Dcgettext(msgid, domain, category string) string {
	if t, ok := s.translations[msgid]; ok {
		return t
	}
	return msgid
}

func (s *stubCatalogs) Dcngettext(msgid, msgidPlural string, n uint64, domain, category string) string {
	if n == 1 {
		return s.Dcgettext(msgid, domain, category)
	}
	return s.Dcgettext(msgidPlural, domain, category)
}

func TestTranslatorFallsBackToMsgid(t *testing.T) {
	tr := NewTranslatorForLocale("de_DE.UTF-8")
	if got := tr.Dcgettext("untranslated", "nosuchdomain", "LC_MESSAGES"); got != "untranslated" {
		t.Errorf("Dcgettext = %q", got)
	}
	if got := tr.Dcngettext("one", "many", 2, "nosuchdomain", "LC_MESSAGES"); got != "many" {
		t.Errorf("Dcngettext = %q", got)
	}
}

var _ Catalogs = (*stubCatalogs)(nil)
var _ Catalogs = (*Translator)(nil)
