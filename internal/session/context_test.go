package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
)

func TestResolveMessageID(t *testing.T) {
	c := New(0)
	c.RecordSearch([]string{"m1", "m2", "m3"})

	t.Run("first and latest are synonyms for the newest hit", func(t *testing.T) {
		// The listing is newest-first, so "last"/"latest" deliberately
		// resolve to the first element, not the final one.
		assert.Equal(t, "m1", c.ResolveMessageID("first"))
		assert.Equal(t, "m1", c.ResolveMessageID("last"))
		assert.Equal(t, "m1", c.ResolveMessageID("latest"))
	})

	t.Run("positional index is 1-based", func(t *testing.T) {
		assert.Equal(t, "m1", c.ResolveMessageID("1"))
		assert.Equal(t, "m3", c.ResolveMessageID("3"))
	})

	t.Run("out-of-range index passes through as literal", func(t *testing.T) {
		assert.Equal(t, "4", c.ResolveMessageID("4"))
		assert.Equal(t, "0", c.ResolveMessageID("0"))
	})

	t.Run("last_read", func(t *testing.T) {
		assert.Equal(t, "last_read", c.ResolveMessageID("last_read"))
		c.RecordRead("m2")
		assert.Equal(t, "m2", c.ResolveMessageID("last_read"))
	})

	t.Run("unknown tokens are literal ids", func(t *testing.T) {
		assert.Equal(t, "19a4f2b8c", c.ResolveMessageID("19a4f2b8c"))
	})

	t.Run("symbolic tokens without state pass through", func(t *testing.T) {
		empty := New(0)
		assert.Equal(t, "first", empty.ResolveMessageID("first"))
		assert.Equal(t, "it", empty.ResolveMessageID("it"))
	})
}

func TestResolveMessageIDList(t *testing.T) {
	c := New(0)
	c.RecordSearch([]string{"m1", "m2"})

	t.Run("those expands to the whole last search", func(t *testing.T) {
		assert.Equal(t, []string{"m1", "m2"}, c.ResolveMessageIDList([]string{"those"}))
		assert.Equal(t, []string{"m1", "m2"}, c.ResolveMessageIDList([]string{"all_from_search"}))
	})

	t.Run("those expands to empty when the last search was empty", func(t *testing.T) {
		empty := New(0)
		empty.RecordSearch(nil)
		assert.Empty(t, empty.ResolveMessageIDList([]string{"those"}))
	})

	t.Run("it prefers last read, falls back to first search hit", func(t *testing.T) {
		assert.Equal(t, []string{"m1"}, c.ResolveMessageIDList([]string{"it"}))
		c.RecordRead("m2")
		assert.Equal(t, []string{"m2"}, c.ResolveMessageIDList([]string{"this"}))
	})

	t.Run("it resolves to empty without any state", func(t *testing.T) {
		assert.Empty(t, New(0).ResolveMessageIDList([]string{"it"}))
	})

	t.Run("literal lists pass through unchanged", func(t *testing.T) {
		ids := []string{"a1", "b2"}
		assert.Equal(t, ids, c.ResolveMessageIDList(ids))
	})

	t.Run("mixed symbolic and literal tokens", func(t *testing.T) {
		got := c.ResolveMessageIDList([]string{"first", "x9"})
		assert.Equal(t, []string{"m1", "x9"}, got)
	})
}

func TestRecordSearchReplacesPrevious(t *testing.T) {
	c := New(0)
	c.RecordSearch([]string{"old1", "old2"})
	c.RecordSearch([]string{"new1"})
	assert.Equal(t, []string{"new1"}, c.LastSearchIDs())
}

func TestLabelID(t *testing.T) {
	c := New(0)
	c.RefreshLabels([]*gmail.Label{
		{ID: "Label_1", Name: "Work", Type: "user"},
		{ID: "Label_2", Name: "Receipts/2025", Type: "user"},
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		for _, name := range []string{"Work", "work"} {
			id, ok := c.LabelID(name)
			require.True(t, ok, "LabelID(%q)", name)
			assert.Equal(t, "Label_1", id)
		}
		// All-uppercase names look like system ids and pass through
		// without lookup.
		id, ok := c.LabelID("WORK")
		require.True(t, ok)
		assert.Equal(t, "WORK", id)
	})

	t.Run("system ids pass through", func(t *testing.T) {
		id, ok := c.LabelID("INBOX")
		require.True(t, ok)
		assert.Equal(t, "INBOX", id)

		id, ok = c.LabelID("Label_99")
		require.True(t, ok)
		assert.Equal(t, "Label_99", id)
	})

	t.Run("miss returns not-found, not an error", func(t *testing.T) {
		_, ok := c.LabelID("Personal")
		assert.False(t, ok)
		_, ok = c.LabelID("")
		assert.False(t, ok)
	})

	t.Run("refresh replaces the cache", func(t *testing.T) {
		c.RefreshLabels([]*gmail.Label{{ID: "Label_7", Name: "Travel"}})
		_, ok := c.LabelID("Work")
		assert.False(t, ok)
		id, ok := c.LabelID("travel")
		require.True(t, ok)
		assert.Equal(t, "Label_7", id)
	})
}

func TestCreateThenLookupRoundTrip(t *testing.T) {
	c := New(0)
	created := &gmail.Label{ID: "Label_42", Name: "Projects"}
	c.RefreshLabels([]*gmail.Label{created})

	id, ok := c.LabelID("Projects")
	require.True(t, ok)
	assert.Equal(t, created.ID, id)
}

func TestHistoryRing(t *testing.T) {
	c := New(3)
	for i := 0; i < 5; i++ {
		c.RecordTurn("user", fmt.Sprintf("turn %d", i))
	}

	history := c.History()
	require.Len(t, history, 3)
	assert.Equal(t, "turn 2", history[0].Content)
	assert.Equal(t, "turn 4", history[2].Content)
}

func TestSummary(t *testing.T) {
	c := New(0)
	assert.Contains(t, c.Summary(), "No session state")

	c.RecordSearch([]string{"m1", "m2"})
	c.RecordRead("m1")
	c.RefreshLabels([]*gmail.Label{{ID: "Label_1", Name: "Work"}})

	summary := c.Summary()
	assert.Contains(t, summary, "m1, m2")
	assert.Contains(t, summary, "Last read message id: m1")
	assert.Contains(t, summary, "Work")
}
