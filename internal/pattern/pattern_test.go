package pattern

import "testing"

func TestFencedCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLang string
		wantBody string
	}{
		{
			"csv tag",
			"Here:\n```csv\na,b\n1,2\n```",
			"csv",
			"a,b\n1,2\n",
		},
		{
			"no tag",
			"```\nplain\n```",
			"",
			"plain\n",
		},
		{
			"crlf",
			"```csv\r\nx,y\r\n```",
			"csv",
			"x,y\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default.FencedCodeBlock.FindFirst(tt.input)
			if m == nil {
				t.Fatal("expected a match")
			}
			if m.Captures[0] != tt.wantLang {
				t.Errorf("lang = %q, want %q", m.Captures[0], tt.wantLang)
			}
			if m.Captures[1] != tt.wantBody {
				t.Errorf("body = %q, want %q", m.Captures[1], tt.wantBody)
			}
		})
	}
}

func TestPDFPatterns(t *testing.T) {
	if m := Default.PDFDataURL.FindFirst("see data:application/pdf;base64,JVBERi0= now"); m == nil {
		t.Error("data URL not matched")
	}
	if m := Default.PDFHTTPLink.FindFirst("grab HTTPS://example.com/Report.PDF today"); m == nil {
		t.Error("pdf link should match case-insensitively")
	}
	if Default.PDFHTTPLink.Matches("https://example.com/report.html") {
		t.Error("non-pdf link matched")
	}
	if !Default.PDFContextPhrase.Matches("I've created a PDF for you") {
		t.Error("context phrase not matched")
	}
	if !Default.PDFContextPhrase.Matches("We generated a pdf report") {
		t.Error("generated-a-pdf phrase not matched")
	}
}

func TestChecklistItem(t *testing.T) {
	text := "- [ ] Buy milk\n- [x] Call mom\n- [X] Upper\nnot - [ ] inline"
	matches := Default.ChecklistItem.Find(text)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if matches[0].Captures[0] != " " || matches[0].Captures[1] != "Buy milk" {
		t.Errorf("first match = %v", matches[0].Captures)
	}
	if matches[1].Captures[0] != "x" {
		t.Errorf("second marker = %q, want x", matches[1].Captures[0])
	}
	if matches[2].Captures[0] != "X" {
		t.Errorf("third marker = %q, want X", matches[2].Captures[0])
	}
}

func TestChecklistItemStaysOnOneLine(t *testing.T) {
	// A dash ending one line and the marker on the next is not an item.
	for _, text := range []string{"-\n[ ] split", "- [ ]\nsplit"} {
		if Default.ChecklistItem.Matches(text) {
			t.Errorf("matched across lines: %q", text)
		}
	}
}

func TestInteractiveMarkers(t *testing.T) {
	kw := Default.InteractiveKeyword.FindFirst("Check out [this topic]{.interactive} for more.")
	if kw == nil || kw.Captures[0] != "this topic" {
		t.Errorf("keyword match = %v", kw)
	}

	btn := Default.InteractiveButton.FindFirst("[Send feedback](send:I love this!)")
	if btn == nil {
		t.Fatal("button not matched")
	}
	if btn.Captures[0] != "Send feedback" || btn.Captures[1] != "I love this!" {
		t.Errorf("button captures = %v", btn.Captures)
	}

	// A normal markdown link is not a button.
	if Default.InteractiveButton.Matches("[docs](https://example.com)") {
		t.Error("plain link matched as button")
	}
}

func TestMemoryDirective(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantKey        string
		wantValue      string
		wantImportance string
	}{
		{"with importance", "[MEMORY: mood=happy, importance=3]", "mood", "happy", "3"},
		{"without importance", "[MEMORY: name=Ada]", "name", "Ada", ""},
		{"spaced", "[MEMORY:  likes = tea , importance=5 ]", "likes", "tea", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default.MemoryDirective.FindFirst(tt.input)
			if m == nil {
				t.Fatal("expected a match")
			}
			got := []string{m.Captures[0], m.Captures[1], m.Captures[2]}
			want := []string{tt.wantKey, tt.wantValue, tt.wantImportance}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("capture %d = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestReferencePatterns(t *testing.T) {
	numbered := Default.ReferenceNumbered.Find("[1]: First source\n[2]: Second source")
	if len(numbered) != 2 {
		t.Fatalf("numbered matches = %d, want 2", len(numbered))
	}
	if numbered[0].Captures[0] != "1" || numbered[0].Captures[1] != "First source" {
		t.Errorf("numbered captures = %v", numbered[0].Captures)
	}

	section := Default.ReferenceSection.FindFirst("Intro\n\nSources:\nAlpha\nBeta\n\nOutro")
	if section == nil {
		t.Fatal("section not matched")
	}
	if section.Captures[1] != "Alpha\nBeta\n" {
		t.Errorf("section block = %q", section.Captures[1])
	}

	for _, phrase := range []string{
		"according to Smith",
		"Based on the survey",
		"as stated in the manual",
		"as mentioned in chapter 2",
		"from Jones we know that things work",
	} {
		if !Default.ReferenceInline.Matches(phrase) {
			t.Errorf("inline phrase not matched: %q", phrase)
		}
	}
}

func TestPatternsAreTotal(t *testing.T) {
	// Every pattern must return an empty result, not fail, on arbitrary input.
	inputs := []string{"", "no directives here", "[", "```", "\x00\xff"}
	patterns := []*Pattern{
		Default.FencedCodeBlock, Default.PDFDataURL, Default.PDFHTTPLink,
		Default.PDFContextPhrase, Default.HTTPURL, Default.ReferenceNumbered,
		Default.ReferenceSection, Default.ReferenceInline, Default.ChecklistItem,
		Default.InteractiveKeyword, Default.InteractiveButton, Default.MemoryDirective,
	}
	for _, p := range patterns {
		for _, in := range inputs {
			_ = p.Find(in) // must not panic
		}
	}
}
