package gmail

import (
	"encoding/base64"

	gmail "google.golang.org/api/gmail/v1"
)

// parseMessage normalizes an API message into the domain projection. It
// handles both metadata-only and full payloads; body and attachments are
// only present when the MIME tree was fetched.
func parseMessage(m *gmail.Message) *Message {
	msg := &Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Subject:  headerValue(m, "Subject"),
		From:     headerValue(m, "From"),
		To:       headerValue(m, "To"),
		Date:     headerValue(m, "Date"),
		Snippet:  m.Snippet,
		LabelIDs: m.LabelIds,
	}
	msg.Body = extractPlainText(m)
	msg.Attachments = collectAttachments(m.Payload)
	return msg
}

// headerValue extracts a header value from a Gmail message.
func headerValue(m *gmail.Message, header string) string {
	if m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if h.Name == header {
			return h.Value
		}
	}
	return ""
}

// extractPlainText returns the first text/plain leaf found by depth-first
// traversal of the MIME part tree, falling back to the top-level body data,
// then to the snippet.
func extractPlainText(m *gmail.Message) string {
	if m.Payload == nil {
		return m.Snippet
	}

	var body string
	walkParts(m.Payload, func(part *gmail.MessagePart) {
		if body == "" && part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			body = part.Body.Data
		}
	})

	if body == "" && m.Payload.Body != nil {
		body = m.Payload.Body.Data
	}
	if body == "" {
		return m.Snippet
	}

	decoded, err := decodeBody(body)
	if err != nil {
		return m.Snippet
	}
	return decoded
}

// collectAttachments gathers parts that carry both a filename and an
// attachment id.
func collectAttachments(payload *gmail.MessagePart) []Attachment {
	var attachments []Attachment
	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, Attachment{
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})
	return attachments
}

// walkParts recursively walks through message parts, depth first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// decodeBody decodes base64url-encoded body data, falling back to standard
// base64 (the Gmail API uses RFC 4648 base64url).
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}
