// Package gmail is a thin wrapper around the Gmail REST API.
//
// It exposes one method per domain operation (search, read, send, label
// modification, batch operations, labels, filters) and owns response
// normalization: header extraction, MIME body decoding and attachment
// listing. Every failure is wrapped with the name of the operation that
// failed, preserving the underlying cause.
package gmail
