// Package logging provides slog helpers for consistent structured logging
// across the mailpilot codebase, plus setup routines that keep stdout clean
// when the process is speaking a stdio protocol.
package logging
