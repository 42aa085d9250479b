package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Send builds an RFC 2822 message from req, base64url-encodes it and submits
// it. Thread replies pass ThreadID through unmodified. The id of the sent
// message is returned.
func (c *Client) Send(ctx context.Context, req SendRequest) (_ string, err error) {
	start := time.Now()
	defer func() { c.record(ctx, "send", start, err) }()

	raw, err := buildRawMessage(req)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(raw)),
		ThreadId: req.ThreadID,
	}

	sent, err := c.svc.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// buildRawMessage renders req as an RFC 2822 message with a UTF-8 plain-text
// body.
func buildRawMessage(req SendRequest) (string, error) {
	if len(req.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if req.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if req.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(strings.Join(req.To, ", "))
	b.WriteString("\r\n")

	if len(req.Cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(req.Cc, ", "))
		b.WriteString("\r\n")
	}

	if len(req.Bcc) > 0 {
		b.WriteString("Bcc: ")
		b.WriteString(strings.Join(req.Bcc, ", "))
		b.WriteString("\r\n")
	}

	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(req.Subject))
	b.WriteString("\r\n")

	// Threading headers for replies.
	if req.InReplyTo != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(req.InReplyTo)
		b.WriteString("\r\n")
	}
	if req.References != "" {
		b.WriteString("References: ")
		b.WriteString(req.References)
		b.WriteString("\r\n")
	}

	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(req.Body)

	return b.String(), nil
}

// encodeRFC2047 encodes a header value per RFC 2047 when it contains
// non-ASCII characters, and returns it unchanged otherwise.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
