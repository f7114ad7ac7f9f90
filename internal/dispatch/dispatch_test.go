package dispatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendRecorder struct {
	mu   sync.Mutex
	sent []string
}

func (r *sendRecorder) send(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
}

func (r *sendRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestChecklistClickIdempotent(t *testing.T) {
	rec := &sendRecorder{}
	d := New(rec.send)

	assert.True(t, d.ChecklistClick("Buy milk"))
	assert.False(t, d.ChecklistClick("Buy milk"))
	assert.False(t, d.ChecklistClick("Buy milk"))

	require.Equal(t, []string{"I've completed: Buy milk"}, rec.messages())
	assert.True(t, d.Checked("Buy milk"))
	assert.False(t, d.Checked("Buy bread"))
}

func TestKeywordClickRepeats(t *testing.T) {
	rec := &sendRecorder{}
	d := New(rec.send)

	d.KeywordClick("recursion")
	d.KeywordClick("recursion")

	require.Equal(t, []string{
		"Tell me more about recursion",
		"Tell me more about recursion",
	}, rec.messages())
}

func TestButtonClickVerbatim(t *testing.T) {
	rec := &sendRecorder{}
	d := New(rec.send)

	d.ButtonClick("Yes, show me the details!")
	require.Equal(t, []string{"Yes, show me the details!"}, rec.messages())
}

func TestWithCheckedSeed(t *testing.T) {
	rec := &sendRecorder{}
	d := New(rec.send, WithChecked([]string{"Done already"}))

	assert.True(t, d.Checked("Done already"))
	// Seeded items behave like clicked ones: no re-send.
	assert.False(t, d.ChecklistClick("Done already"))
	assert.Empty(t, rec.messages())
}

type failingSink struct{ calls int }

func (s *failingSink) MarkChecked(string) error {
	s.calls++
	return errors.New("disk full")
}

func TestSinkErrorDoesNotBlockSend(t *testing.T) {
	rec := &sendRecorder{}
	sink := &failingSink{}
	d := New(rec.send, WithCheckedSink(sink))

	assert.True(t, d.ChecklistClick("Task"))
	assert.Equal(t, 1, sink.calls)
	require.Equal(t, []string{"I've completed: Task"}, rec.messages())
	assert.True(t, d.Checked("Task"))
}

func TestSnapshotIsCopy(t *testing.T) {
	d := New(nil)
	d.ChecklistClick("A")

	snap := d.Snapshot()
	snap["B"] = true

	assert.True(t, d.Checked("A"))
	assert.False(t, d.Checked("B"))
}

func TestConcurrentClicks(t *testing.T) {
	rec := &sendRecorder{}
	d := New(rec.send)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.ChecklistClick("shared item")
		}()
	}
	wg.Wait()

	require.Equal(t, []string{"I've completed: shared item"}, rec.messages())
}
