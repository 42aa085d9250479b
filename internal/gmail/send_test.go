package gmail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawMessage(t *testing.T) {
	raw, err := buildRawMessage(SendRequest{
		To:      []string{"a@x.com"},
		Subject: "S",
		Body:    "B",
	})
	require.NoError(t, err)

	assert.Contains(t, raw, "To: a@x.com\r\n")
	assert.Contains(t, raw, "Subject: S\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.Contains(t, raw, "MIME-Version: 1.0\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nB"))
}

func TestBuildRawMessageOptionalHeaders(t *testing.T) {
	raw, err := buildRawMessage(SendRequest{
		To:         []string{"a@x.com", "b@x.com"},
		Cc:         []string{"c@x.com"},
		Bcc:        []string{"d@x.com"},
		Subject:    "Re: hello",
		Body:       "reply body",
		InReplyTo:  "<orig@x.com>",
		References: "<root@x.com> <orig@x.com>",
	})
	require.NoError(t, err)

	assert.Contains(t, raw, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, raw, "Cc: c@x.com\r\n")
	assert.Contains(t, raw, "Bcc: d@x.com\r\n")
	assert.Contains(t, raw, "In-Reply-To: <orig@x.com>\r\n")
	assert.Contains(t, raw, "References: <root@x.com> <orig@x.com>\r\n")
}

func TestBuildRawMessageValidation(t *testing.T) {
	_, err := buildRawMessage(SendRequest{Subject: "S", Body: "B"})
	assert.ErrorContains(t, err, "recipient")

	_, err = buildRawMessage(SendRequest{To: []string{"a@x.com"}, Body: "B"})
	assert.ErrorContains(t, err, "subject")

	_, err = buildRawMessage(SendRequest{To: []string{"a@x.com"}, Subject: "S"})
	assert.ErrorContains(t, err, "body")
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "plain ascii", encodeRFC2047("plain ascii"))

	encoded := encodeRFC2047("Grüße")
	assert.True(t, strings.HasPrefix(encoded, "=?UTF-8?"))
	assert.NotContains(t, encoded, "ü")
}
