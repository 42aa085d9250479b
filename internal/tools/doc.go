// Package tools implements the tool dispatch pipeline shared by the chat
// front-end and the MCP server.
//
// Every call runs the same stages: validate arguments, resolve contextual
// references against the session store, confirm dangerous operations,
// execute against the Gmail wrapper and normalize the result. A declined
// confirmation is a successful no-op, not an error.
package tools
