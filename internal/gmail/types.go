package gmail

// Message is a read-only projection of a Gmail message. Search results carry
// metadata only; Read fills Body and Attachments.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	To       string `json:"to"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet,omitempty"`
	// Body is the first text/plain part found by depth-first traversal of
	// the MIME tree, falling back to the top-level body, then the snippet.
	Body        string       `json:"body,omitempty"`
	LabelIDs    []string     `json:"labelIds,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment describes an attachment without its content.
type Attachment struct {
	AttachmentID string `json:"attachmentId"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

// Label is a Gmail label. Type is "system" or "user".
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SendRequest describes an outgoing email. ThreadID, InReplyTo and
// References are set for thread replies and passed through unmodified.
type SendRequest struct {
	To         []string
	Cc         []string
	Bcc        []string
	Subject    string
	Body       string
	ThreadID   string
	InReplyTo  string
	References string
}

// BatchOperation enumerates the operations BatchOperate supports.
type BatchOperation string

const (
	BatchArchive    BatchOperation = "archive"
	BatchDelete     BatchOperation = "delete"
	BatchMarkRead   BatchOperation = "markRead"
	BatchMarkUnread BatchOperation = "markUnread"
	BatchStar       BatchOperation = "star"
	BatchUnstar     BatchOperation = "unstar"
)

// BatchOperations lists every supported batch operation.
var BatchOperations = []BatchOperation{
	BatchArchive, BatchDelete, BatchMarkRead, BatchMarkUnread, BatchStar, BatchUnstar,
}

// Valid reports whether op is a member of the fixed operation set.
func (op BatchOperation) Valid() bool {
	switch op {
	case BatchArchive, BatchDelete, BatchMarkRead, BatchMarkUnread, BatchStar, BatchUnstar:
		return true
	}
	return false
}

// BatchResult reports the outcome of a batch operation.
type BatchResult struct {
	Operation  BatchOperation `json:"operation"`
	Affected   int            `json:"affected"`
	MessageIDs []string       `json:"messageIds"`
}

// FilterCriteria represents the matching criteria for a Gmail filter.
type FilterCriteria struct {
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Query         string `json:"query,omitempty"`
	HasAttachment bool   `json:"hasAttachment,omitempty"`
}

// FilterAction represents the actions taken when a filter matches.
type FilterAction struct {
	AddLabelIDs    []string `json:"addLabelIds,omitempty"`
	RemoveLabelIDs []string `json:"removeLabelIds,omitempty"`
	Forward        string   `json:"forward,omitempty"`
	// Archive removes the INBOX label; it is folded into RemoveLabelIDs
	// when the filter is created.
	Archive    bool `json:"archive,omitempty"`
	MarkAsRead bool `json:"markAsRead,omitempty"`
	Star       bool `json:"star,omitempty"`
}

// RemovesInbox reports whether the action removes the INBOX label through
// any spelling, explicit label id or the archive convenience flag.
func (a FilterAction) RemovesInbox() bool {
	if a.Archive {
		return true
	}
	for _, id := range a.RemoveLabelIDs {
		if id == labelInbox {
			return true
		}
	}
	return false
}

// FilterInfo is a Gmail filter with its criteria and actions.
type FilterInfo struct {
	ID       string         `json:"id"`
	Criteria FilterCriteria `json:"criteria"`
	Action   FilterAction   `json:"action"`
}

// Well-known system label ids.
const (
	labelInbox   = "INBOX"
	labelUnread  = "UNREAD"
	labelStarred = "STARRED"
)
