// Package google handles OAuth2 authentication against Google APIs.
//
// Tokens are cached on disk in the user cache directory. The token file and
// the OAuth credentials are opaque inputs; their lifecycle is owned by the
// golang.org/x/oauth2 library.
package google
