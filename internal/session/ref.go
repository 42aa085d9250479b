package session

import "strconv"

// RefKind enumerates the closed set of symbolic message references.
type RefKind int

const (
	// RefLiteral is a server-issued id (or an unrecognized token passed
	// through for the server to reject).
	RefLiteral RefKind = iota
	// RefFirst is the first (newest) id of the last search result.
	// "first", "last" and "latest" all map here: the listing is already
	// newest-first, so the "last" email is the first element.
	RefFirst
	// RefIndex is a 1-based position in the last search result.
	RefIndex
	// RefLastRead is the most recently read message id.
	RefLastRead
	// RefThis is "it"/"this": the last read message, else the newest
	// search hit.
	RefThis
	// RefAll is "those"/"all_from_search": the entire last search result.
	RefAll
)

// Ref is a parsed message reference. Index is set for RefIndex, Literal for
// RefLiteral.
type Ref struct {
	Kind    RefKind
	Index   int
	Literal string
}

// ParseRef classifies a token once, at the dispatcher boundary, so the
// string matching lives in exactly one place.
func ParseRef(token string) Ref {
	switch token {
	case "first", "last", "latest":
		return Ref{Kind: RefFirst}
	case "last_read":
		return Ref{Kind: RefLastRead}
	case "it", "this":
		return Ref{Kind: RefThis}
	case "those", "all_from_search":
		return Ref{Kind: RefAll}
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 1 {
		return Ref{Kind: RefIndex, Index: n}
	}
	return Ref{Kind: RefLiteral, Literal: token}
}
