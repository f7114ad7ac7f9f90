package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"persona/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "persona.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.CreateSession("tutor", "First chat")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "tutor", sess.Persona)

	got, err := s.GetSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "First chat", got.Title)

	_, err = s.GetSession("nope")
	assert.Error(t, err)
}

func TestLatestSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestSession("tutor")
	assert.Error(t, err)

	first, err := s.CreateSession("tutor", "one")
	require.NoError(t, err)
	_ = first
	time.Sleep(5 * time.Millisecond)
	second, err := s.CreateSession("tutor", "two")
	require.NoError(t, err)

	latest, err := s.LatestSession("tutor")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.CreateSession("tutor", "chat")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.ListSessions(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := s.ListSessions(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMessagesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.CreateSession("tutor", "")
	require.NoError(t, err)

	user, err := s.AppendMessage(types.Message{
		SessionID: sess.ID, Role: types.RoleUser, Content: "hello",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	time.Sleep(2 * time.Millisecond)
	_, err = s.AppendMessage(types.Message{
		SessionID: sess.ID, Role: types.RoleAssistant, Content: "hi there",
	})
	require.NoError(t, err)

	msgs, err := s.Messages(sess.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
}

func TestMemoryUpsert(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveMemory("tutor", types.MemoryDirective{Key: "mood", Value: "happy", Importance: 2}))
	require.NoError(t, s.SaveMemory("tutor", types.MemoryDirective{Key: "mood", Value: "excited", Importance: 4}))

	mems, err := s.Memories("tutor")
	require.NoError(t, err)
	require.Len(t, mems, 1)
	assert.Equal(t, "excited", mems[0].Value)
	assert.Equal(t, 4, mems[0].Importance)
}

func TestMemoriesOrderedByImportance(t *testing.T) {
	s := newTestStore(t)

	saved := s.SaveMemories("tutor", []types.MemoryDirective{
		{Key: "low", Value: "a", Importance: 1},
		{Key: "high", Value: "b", Importance: 5},
		{Key: "mid", Value: "c", Importance: 3},
	})
	assert.Equal(t, 3, saved)

	mems, err := s.Memories("tutor")
	require.NoError(t, err)
	require.Len(t, mems, 3)
	assert.Equal(t, "high", mems[0].Key)
	assert.Equal(t, "mid", mems[1].Key)
	assert.Equal(t, "low", mems[2].Key)

	// Memories are per persona.
	other, err := s.Memories("coach")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryPrompt(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.MemoryPrompt("tutor"))

	require.NoError(t, s.SaveMemory("tutor", types.MemoryDirective{Key: "name", Value: "Ada"}))
	prompt := s.MemoryPrompt("tutor")
	assert.Contains(t, prompt, "Things you remember about this user:")
	assert.Contains(t, prompt, "- name: Ada")
}

func TestClearMemories(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveMemory("tutor", types.MemoryDirective{Key: "a", Value: "1"}))
	require.NoError(t, s.SaveMemory("tutor", types.MemoryDirective{Key: "b", Value: "2"}))

	n, err := s.ClearMemories("tutor")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mems, err := s.Memories("tutor")
	require.NoError(t, err)
	assert.Empty(t, mems)
}

func TestChecklistPersistence(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.MarkChecked("Buy milk"))
	require.NoError(t, s.MarkChecked("Buy milk")) // idempotent
	require.NoError(t, s.MarkChecked("Call mom"))

	texts, err := s.CheckedTexts()
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Call mom"}, texts)
}
