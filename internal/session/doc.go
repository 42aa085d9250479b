// Package session holds the per-session state an interactive mailbox
// assistant needs: the last search result ids, the last read message id, a
// label name→id cache and a bounded conversation history. Symbolic
// references such as "first", "it" or "those" are resolved against this
// state; unresolvable tokens fall through as literal ids for the server to
// reject.
//
// State lives for one process and is never persisted.
package session
