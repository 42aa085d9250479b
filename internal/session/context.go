package session

import (
	"fmt"
	"strings"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
)

// DefaultHistoryTurns bounds the conversation ring when no capacity is given.
const DefaultHistoryTurns = 16

// systemLabelPrefix marks server-issued user label ids such as "Label_42".
const systemLabelPrefix = "Label_"

// Turn is one conversation exchange kept for model context.
type Turn struct {
	Role    string
	Content string
}

// Context is the per-session state store. It is constructed once per process
// and threaded explicitly into the dispatcher and front-end; strict
// turn-taking means no locking is required.
type Context struct {
	lastSearch []string
	lastRead   string

	labelIDs   map[string]string // lower-cased name → id
	labelNames []string          // original casing, listing order

	history    []Turn
	historyCap int
}

// New creates an empty session context with the given history capacity.
func New(historyCap int) *Context {
	if historyCap <= 0 {
		historyCap = DefaultHistoryTurns
	}
	return &Context{
		labelIDs:   make(map[string]string),
		historyCap: historyCap,
	}
}

// RecordSearch remembers the ids of the latest search result, replacing any
// previous result. Order is the server's own: newest first.
func (c *Context) RecordSearch(ids []string) {
	c.lastSearch = append([]string(nil), ids...)
}

// RecordRead remembers the id of the most recently read message.
func (c *Context) RecordRead(id string) {
	c.lastRead = id
}

// LastSearchIDs returns the ids of the latest recorded search.
func (c *Context) LastSearchIDs() []string {
	return append([]string(nil), c.lastSearch...)
}

// LastReadID returns the most recently read message id, or "".
func (c *Context) LastReadID() string {
	return c.lastRead
}

// ResolveMessageID maps a symbolic token onto a concrete message id.
// Unresolvable tokens come back unchanged so the server rejects them with
// its own not-found error.
func (c *Context) ResolveMessageID(token string) string {
	switch ref := ParseRef(token); ref.Kind {
	case RefFirst:
		if len(c.lastSearch) > 0 {
			return c.lastSearch[0]
		}
	case RefIndex:
		if ref.Index <= len(c.lastSearch) {
			return c.lastSearch[ref.Index-1]
		}
	case RefLastRead, RefThis:
		if c.lastRead != "" {
			return c.lastRead
		}
		if ref.Kind == RefThis && len(c.lastSearch) > 0 {
			return c.lastSearch[0]
		}
	}
	return token
}

// ResolveMessageIDList expands symbolic list tokens. "those" and
// "all_from_search" expand to the whole last search result, even when that
// is empty; "it"/"this" become a singleton; single-message tokens resolve
// per ResolveMessageID; anything else passes through unchanged.
func (c *Context) ResolveMessageIDList(tokens []string) []string {
	resolved := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch ParseRef(token).Kind {
		case RefAll:
			resolved = append(resolved, c.lastSearch...)
		case RefThis:
			switch {
			case c.lastRead != "":
				resolved = append(resolved, c.lastRead)
			case len(c.lastSearch) > 0:
				resolved = append(resolved, c.lastSearch[0])
			}
		default:
			resolved = append(resolved, c.ResolveMessageID(token))
		}
	}
	return resolved
}

// RefreshLabels replaces the label cache with the given listing.
func (c *Context) RefreshLabels(labels []*gmail.Label) {
	c.labelIDs = make(map[string]string, len(labels))
	c.labelNames = c.labelNames[:0]
	for _, l := range labels {
		c.labelIDs[strings.ToLower(l.Name)] = l.ID
		c.labelNames = append(c.labelNames, l.Name)
	}
}

// AddLabel records a single newly created label without discarding the
// existing cache.
func (c *Context) AddLabel(l *gmail.Label) {
	if l == nil {
		return
	}
	if c.labelIDs == nil {
		c.labelIDs = make(map[string]string)
	}
	c.labelIDs[strings.ToLower(l.Name)] = l.ID
	c.labelNames = append(c.labelNames, l.Name)
}

// LabelID resolves a label name to its id, case-insensitively. Names that
// are entirely upper-case (system ids like INBOX) or carry the user label
// id prefix are treated as already resolved and passed through. A miss
// returns ("", false) so the caller can refresh the cache and retry once.
func (c *Context) LabelID(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if name == strings.ToUpper(name) || strings.HasPrefix(name, systemLabelPrefix) {
		return name, true
	}
	id, ok := c.labelIDs[strings.ToLower(name)]
	return id, ok
}

// LabelNames returns the cached label names in listing order.
func (c *Context) LabelNames() []string {
	return append([]string(nil), c.labelNames...)
}

// RecordTurn appends a conversation turn, evicting the oldest when the ring
// is full.
func (c *Context) RecordTurn(role, content string) {
	c.history = append(c.history, Turn{Role: role, Content: content})
	if len(c.history) > c.historyCap {
		c.history = c.history[len(c.history)-c.historyCap:]
	}
}

// History returns the retained conversation turns, oldest first.
func (c *Context) History() []Turn {
	return append([]Turn(nil), c.history...)
}

// Summary renders the session state for inclusion in the model's system
// instructions: natural-language references only work when the model can
// see what they could refer to.
func (c *Context) Summary() string {
	var b strings.Builder

	if c.lastRead != "" {
		fmt.Fprintf(&b, "Last read message id: %s\n", c.lastRead)
	}
	if len(c.lastSearch) > 0 {
		fmt.Fprintf(&b, "Last search returned %d message(s), newest first: %s\n",
			len(c.lastSearch), strings.Join(c.lastSearch, ", "))
	}
	if len(c.labelNames) > 0 {
		fmt.Fprintf(&b, "Available labels: %s (example search: label:%s)\n",
			strings.Join(c.labelNames, ", "), c.labelNames[0])
	}
	if b.Len() == 0 {
		return "No session state yet: no searches or reads this session."
	}
	return strings.TrimRight(b.String(), "\n")
}
