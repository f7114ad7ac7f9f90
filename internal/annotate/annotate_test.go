package annotate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"persona/internal/types"
)

func assistant(content string) types.Message {
	return types.Message{ID: "m1", Role: types.RoleAssistant, Content: content}
}

func TestAnnotateGatesNonAssistant(t *testing.T) {
	content := "- [ ] Task\n[MEMORY: key=value]"
	for _, role := range []types.Role{types.RoleUser, types.RoleSystem} {
		msg := types.Message{ID: "m1", Role: role, Content: content}
		ann := Annotate(msg, nil)
		if !ann.IsEmpty() {
			t.Errorf("role %s: got detections %+v", role, ann)
		}
		if ann.DisplayText != content {
			t.Errorf("role %s: display text modified: %q", role, ann.DisplayText)
		}
	}
}

func TestAnnotateGatesLoadingAndEncrypted(t *testing.T) {
	content := "partial [MEMORY: key=val"
	for _, tt := range []struct {
		name string
		msg  types.Message
	}{
		{"loading", types.Message{ID: "m1", Role: types.RoleAssistant, Content: content, IsLoading: true}},
		{"encrypted", types.Message{ID: "m1", Role: types.RoleAssistant, Content: content, IsEncrypted: true}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ann := Annotate(tt.msg, nil)
			if !ann.IsEmpty() || ann.DisplayText != content {
				t.Errorf("got %+v, want neutral annotation", ann)
			}
		})
	}
}

func TestAnnotateFullMessage(t *testing.T) {
	content := "Here is your data:\n" +
		"```csv\nname,score\nAda,10\n```\n" +
		"Try [neural nets]{.interactive} or [More](send:tell me more).\n" +
		"- [ ] Review the table\n" +
		"[MEMORY: topic=csv, importance=2]\n" +
		"Sources:\nThe 2024 survey\n"

	ann := Annotate(assistant(content), nil)

	if ann.CSV == nil || ann.CSV.RawBlock != "name,score\nAda,10" {
		t.Errorf("CSV = %+v", ann.CSV)
	}
	if len(ann.Keywords) != 1 || ann.Keywords[0].Text != "neural nets" {
		t.Errorf("Keywords = %+v", ann.Keywords)
	}
	if len(ann.Buttons) != 1 || ann.Buttons[0].Payload != "tell me more" {
		t.Errorf("Buttons = %+v", ann.Buttons)
	}
	if len(ann.Checklist) != 1 || ann.Checklist[0].Text != "Review the table" {
		t.Errorf("Checklist = %+v", ann.Checklist)
	}
	want := []types.MemoryDirective{{Key: "topic", Value: "csv", Importance: 2}}
	if diff := cmp.Diff(want, ann.Memories); diff != "" {
		t.Errorf("Memories mismatch (-want +got):\n%s", diff)
	}
	if !ann.HasMemoryDirectives || !ann.HasReferences {
		t.Errorf("flags: memory=%v refs=%v", ann.HasMemoryDirectives, ann.HasReferences)
	}
	if ann.WidgetCount() == 0 {
		t.Error("WidgetCount = 0")
	}
}

func TestStripDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"memory deleted",
			"Noted. [MEMORY: mood=happy, importance=3]",
			"Noted. ",
		},
		{
			"checklist unchecked",
			"- [ ] Buy milk",
			"☐ Buy milk",
		},
		{
			"checklist checked keeps indent",
			"  - [x] Call mom",
			"  ☑ Call mom",
		},
		{
			"keyword",
			"Try [recursion]{.interactive} today",
			"Try **recursion** today",
		},
		{
			"button",
			"[Send it](send:yes please)",
			"⟦Send it⟧",
		},
		{
			"memory inside checklist line",
			"- [ ] Review [MEMORY: k=v] notes",
			"☐ Review  notes",
		},
		{
			"fences and links untouched",
			"```csv\na,b\n```\n[docs](https://example.com)",
			"```csv\na,b\n```\n[docs](https://example.com)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripDirectives(tt.input, nil)
			if got != tt.want {
				t.Errorf("StripDirectives(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripDirectivesSplicedSyntax(t *testing.T) {
	// Deleting a directive joins its neighbors, and the joined text can
	// itself be directive syntax. The result must still be free of it.
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"memory nested in memory",
			"[MEM[MEMORY: a=b]ORY: c=d]",
			"",
		},
		{
			"memory splits a keyword span",
			"see [kw[MEMORY: a=b]]{.interactive} here",
			"see **kw** here",
		},
		{
			"memory splits a button span",
			"[Go[MEMORY: a=b]](send:p)",
			"⟦Go⟧",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripDirectives(tt.input, nil)
			if got != tt.want {
				t.Errorf("StripDirectives(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripDirectivesIdempotent(t *testing.T) {
	inputs := []string{
		"- [ ] A\n- [x] B\n[MEMORY: k=v]\n[kw]{.interactive}\n[L](send:p)",
		"- [ ] Item with [MEMORY: nested=yes, importance=1] inside",
		"Plain text with no directives at all.",
		"Mixed: [a]{.interactive} then - [ ] not at line start",
		"[MEM[MEMORY: a=b]ORY: c=d]",
		"see [kw[MEMORY: a=b]]{.interactive} here",
	}
	checked := map[string]bool{"A": true}
	for _, in := range inputs {
		once := StripDirectives(in, checked)
		twice := StripDirectives(once, checked)
		if once != twice {
			t.Errorf("not idempotent:\n in: %q\nonce: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestStripDirectivesCheckedSet(t *testing.T) {
	checked := map[string]bool{"Review": true}
	got := StripDirectives("- [ ] Review\n- [ ] Draft", checked)
	want := "☑ Review\n☐ Draft"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	msg := assistant("- [ ] Task one")

	first := c.Annotate(msg, nil)
	second := c.Annotate(msg, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached result differs (-first +second):\n%s", diff)
	}

	c.Invalidate(msg.ID)
	third := c.Annotate(msg, map[string]bool{"Task one": true})
	if len(third.Checklist) != 1 || !third.Checklist[0].Checked {
		t.Errorf("post-invalidate annotation = %+v", third.Checklist)
	}
}
