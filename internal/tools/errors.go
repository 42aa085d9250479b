package tools

import (
	"fmt"
	"strings"
)

// ValidationError reports bad or missing tool arguments. The operation was
// never attempted; every offending field is listed.
type ValidationError struct {
	Tool   string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Fields, "; "))
}

// UnknownToolError reports a tool name outside the dispatch surface. Unlike
// runtime conditions this indicates an integration bug in the caller.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Tool)
}
