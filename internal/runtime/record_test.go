package runtime

import (
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input, rs string) (records, rts []string) {
	t.Helper()
	rr := NewRecordReader(strings.NewReader(input))
	for {
		rec, rt, err := rr.Read(rs)
		if err == io.EOF {
			return records, rts
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		records = append(records, rec)
		rts = append(rts, rt)
		if len(records) > 100 {
			t.Fatal("reader did not terminate")
		}
	}
}

func TestLineMode(t *testing.T) {
	records, rts := readAll(t, "a\nb\nc\n", "\n")
	want := []string{"a", "b", "c"}
	if strings.Join(records, "|") != strings.Join(want, "|") {
		t.Errorf("records = %v, want %v", records, want)
	}
	for _, rt := range rts {
		if rt != "\n" {
			t.Errorf("rt = %q, want \\n", rt)
		}
	}
}

func TestFinalRecordWithoutTerminator(t *testing.T) {
	records, rts := readAll(t, "a\nb", "\n")
	if len(records) != 2 || records[1] != "b" {
		t.Fatalf("records = %v", records)
	}
	if rts[1] != "" {
		t.Errorf("final rt = %q, want empty", rts[1])
	}
}

func TestSingleCharRS(t *testing.T) {
	records, _ := readAll(t, "a;b;c", ";")
	want := []string{"a", "b", "c"}
	if strings.Join(records, "|") != strings.Join(want, "|") {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestParagraphMode(t *testing.T) {
	input := "\n\nword1 word2\nword3\n\n\npara2\n"
	records, rts := readAll(t, input, "")
	if len(records) != 2 {
		t.Fatalf("records = %v, want 2 paragraphs", records)
	}
	if records[0] != "word1 word2\nword3" {
		t.Errorf("first paragraph = %q", records[0])
	}
	if records[1] != "para2" {
		t.Errorf("second paragraph = %q", records[1])
	}
	if rts[0] != "\n" {
		t.Errorf("rt after blank line = %q", rts[0])
	}
	if rts[1] != "" {
		t.Errorf("rt at EOF = %q", rts[1])
	}
}

func TestMultiCharRSFallsBackToLines(t *testing.T) {
	records, _ := readAll(t, "a\nb\n", "END")
	if len(records) != 2 {
		t.Errorf("records = %v, want line-mode fallback", records)
	}
}

func TestEmptyInput(t *testing.T) {
	records, _ := readAll(t, "", "\n")
	if len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}
