package render

import (
	"strings"
	"testing"
)

func TestRenderFallsBackWithoutRenderer(t *testing.T) {
	m := &Markdown{}
	input := "# Heading\n\nplain **bold**"
	if got := m.Render(input); got != input {
		t.Errorf("nil renderer should pass text through, got %q", got)
	}
	if got := m.Render(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}

func TestNewMarkdownClampsWidth(t *testing.T) {
	// Width below the minimum must not fail construction.
	m := NewMarkdown(0)
	if m == nil {
		t.Fatal("NewMarkdown returned nil")
	}
	_ = m.Render("hello")
}

func TestCSVTable(t *testing.T) {
	got := CSVTable("name,score\nAda,10\nGrace,9")
	want := "| name | score |\n| --- | --- |\n| Ada | 10 |\n| Grace | 9 |\n"
	if got != want {
		t.Errorf("CSVTable = %q, want %q", got, want)
	}
}

func TestCSVTablePadsRaggedRows(t *testing.T) {
	got := CSVTable("a,b,c\n1,2")
	if !strings.Contains(got, "| 1 | 2 |  |") {
		t.Errorf("short row not padded: %q", got)
	}
}

func TestCSVTableEscapesPipes(t *testing.T) {
	got := CSVTable("cmd,desc\nls | wc,count files")
	if !strings.Contains(got, `ls \| wc`) {
		t.Errorf("pipe not escaped: %q", got)
	}
}

func TestCSVTableEmpty(t *testing.T) {
	if got := CSVTable("\n  \n"); got != "" {
		t.Errorf("blank input should yield empty table, got %q", got)
	}
}
