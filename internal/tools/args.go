package tools

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
)

// SearchArgs are the arguments for search_emails.
type SearchArgs struct {
	Query      string
	MaxResults int64
}

// ReadArgs are the arguments for read_email.
type ReadArgs struct {
	MessageID string
}

// GetAttachmentArgs are the arguments for get_attachment.
type GetAttachmentArgs struct {
	MessageID    string
	AttachmentID string
}

// SendArgs are the arguments for send_email.
type SendArgs struct {
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	Body     string
	ThreadID string
}

// ModifyLabelsArgs are the arguments for modify_labels.
type ModifyLabelsArgs struct {
	MessageIDs   []string
	AddLabels    []string
	RemoveLabels []string
}

// BatchArgs are the arguments for batch_operation.
type BatchArgs struct {
	Query     string
	Operation string
}

// CreateLabelArgs are the arguments for create_label.
type CreateLabelArgs struct {
	Name string
}

// CreateFilterArgs are the arguments for create_filter.
type CreateFilterArgs struct {
	Criteria gmail.FilterCriteria
	Action   gmail.FilterAction
}

// DeleteFilterArgs are the arguments for delete_filter.
type DeleteFilterArgs struct {
	FilterID string
}

// argReader accumulates field errors while pulling typed values out of the
// raw argument map, so the caller can report every problem at once.
type argReader struct {
	args   map[string]any
	fields []string
}

func newArgReader(args map[string]any) *argReader {
	if args == nil {
		args = map[string]any{}
	}
	return &argReader{args: args}
}

func (r *argReader) fail(format string, a ...any) {
	r.fields = append(r.fields, fmt.Sprintf(format, a...))
}

func (r *argReader) err(tool string) error {
	if len(r.fields) == 0 {
		return nil
	}
	return &ValidationError{Tool: tool, Fields: r.fields}
}

func (r *argReader) optionalString(key string) string {
	v, ok := r.args[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail("%s must be a string", key)
		return ""
	}
	return s
}

func (r *argReader) requiredString(key string) string {
	v, ok := r.args[key]
	if !ok || v == nil {
		r.fail("%s is required", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail("%s must be a string", key)
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.fail("%s must not be empty", key)
		return ""
	}
	return s
}

// stringList accepts a JSON array of strings or, as a convenience for
// imprecise models, a single string.
func (r *argReader) stringList(key string) []string {
	v, ok := r.args[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				r.fail("%s must contain only strings", key)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		r.fail("%s must be an array of strings", key)
		return nil
	}
}

// integer tolerates the numeric types JSON decoding and LLM providers
// actually produce.
func (r *argReader) integer(key string, def int64) int64 {
	v, ok := r.args[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	default:
		r.fail("%s must be a number", key)
		return def
	}
}

// object distinguishes an absent key (nil, no failure; the caller decides
// whether the key is required) from a present non-object value, including an
// explicit JSON null, which is always a validation failure.
func (r *argReader) object(key string) map[string]any {
	v, ok := r.args[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.fail("%s must be an object", key)
		return nil
	}
	return m
}

func (r *argReader) boolean(key string) bool {
	v, ok := r.args[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail("%s must be a boolean", key)
		return false
	}
	return b
}

func (r *argReader) addresses(key string, required bool) []string {
	raw := r.stringList(key)
	if required && len(raw) == 0 {
		r.fail("%s must contain at least one address", key)
		return nil
	}
	for _, addr := range raw {
		if _, err := mail.ParseAddress(addr); err != nil {
			r.fail("%s contains invalid address %q", key, addr)
		}
	}
	return raw
}

func parseSearchArgs(args map[string]any, defaultMax int64) (SearchArgs, error) {
	if defaultMax < 1 {
		defaultMax = gmail.DefaultMaxResults
	}
	r := newArgReader(args)
	out := SearchArgs{
		Query:      r.requiredString("query"),
		MaxResults: r.integer("maxResults", defaultMax),
	}
	if out.MaxResults < 1 {
		out.MaxResults = defaultMax
	}
	return out, r.err(ToolSearchEmails)
}

func parseReadArgs(args map[string]any) (ReadArgs, error) {
	r := newArgReader(args)
	out := ReadArgs{MessageID: r.requiredString("messageId")}
	return out, r.err(ToolReadEmail)
}

func parseGetAttachmentArgs(args map[string]any) (GetAttachmentArgs, error) {
	r := newArgReader(args)
	out := GetAttachmentArgs{
		MessageID:    r.requiredString("messageId"),
		AttachmentID: r.requiredString("attachmentId"),
	}
	return out, r.err(ToolGetAttachment)
}

func parseSendArgs(args map[string]any) (SendArgs, error) {
	r := newArgReader(args)
	out := SendArgs{
		To:       r.addresses("to", true),
		Cc:       r.addresses("cc", false),
		Bcc:      r.addresses("bcc", false),
		Subject:  r.requiredString("subject"),
		Body:     r.requiredString("body"),
		ThreadID: r.optionalString("threadId"),
	}
	return out, r.err(ToolSendEmail)
}

func parseModifyLabelsArgs(args map[string]any) (ModifyLabelsArgs, error) {
	r := newArgReader(args)
	out := ModifyLabelsArgs{
		MessageIDs:   r.stringList("messageIds"),
		AddLabels:    r.stringList("addLabels"),
		RemoveLabels: r.stringList("removeLabels"),
	}
	if len(out.MessageIDs) == 0 {
		r.fail("messageIds must contain at least one id or reference")
	}
	if len(out.AddLabels) == 0 && len(out.RemoveLabels) == 0 {
		r.fail("at least one of addLabels or removeLabels is required")
	}
	return out, r.err(ToolModifyLabels)
}

func parseBatchArgs(args map[string]any) (BatchArgs, error) {
	r := newArgReader(args)
	out := BatchArgs{
		Query:     r.requiredString("query"),
		Operation: r.requiredString("operation"),
	}
	if out.Operation != "" && !gmail.BatchOperation(out.Operation).Valid() {
		r.fail("operation must be one of %s", strings.Join(batchOperationNames(), ", "))
	}
	return out, r.err(ToolBatchOperation)
}

func batchOperationNames() []string {
	names := make([]string, len(gmail.BatchOperations))
	for i, op := range gmail.BatchOperations {
		names[i] = string(op)
	}
	return names
}

func parseCreateLabelArgs(args map[string]any) (CreateLabelArgs, error) {
	r := newArgReader(args)
	out := CreateLabelArgs{Name: r.requiredString("name")}
	return out, r.err(ToolCreateLabel)
}

func parseCreateFilterArgs(args map[string]any) (CreateFilterArgs, error) {
	r := newArgReader(args)
	var out CreateFilterArgs

	criteria := r.object("criteria")
	if _, present := r.args["criteria"]; !present {
		r.fail("criteria is required")
	}
	cr := newArgReader(criteria)
	out.Criteria = gmail.FilterCriteria{
		From:          cr.optionalString("from"),
		To:            cr.optionalString("to"),
		Subject:       cr.optionalString("subject"),
		Query:         cr.optionalString("query"),
		HasAttachment: cr.boolean("hasAttachment"),
	}
	r.fields = append(r.fields, cr.fields...)
	if criteria != nil && out.Criteria == (gmail.FilterCriteria{}) {
		r.fail("criteria must set at least one condition")
	}

	action := r.object("action")
	if _, present := r.args["action"]; !present {
		r.fail("action is required")
	}
	ar := newArgReader(action)
	out.Action = gmail.FilterAction{
		AddLabelIDs:    ar.stringList("addLabelIds"),
		RemoveLabelIDs: ar.stringList("removeLabelIds"),
		Forward:        ar.optionalString("forward"),
		Archive:        ar.boolean("archive"),
		MarkAsRead:     ar.boolean("markAsRead"),
		Star:           ar.boolean("star"),
	}
	r.fields = append(r.fields, ar.fields...)
	if action != nil && emptyFilterAction(out.Action) {
		r.fail("action must request at least one effect")
	}

	return out, r.err(ToolCreateFilter)
}

func emptyFilterAction(a gmail.FilterAction) bool {
	return len(a.AddLabelIDs) == 0 && len(a.RemoveLabelIDs) == 0 &&
		a.Forward == "" && !a.Archive && !a.MarkAsRead && !a.Star
}

func parseDeleteFilterArgs(args map[string]any) (DeleteFilterArgs, error) {
	r := newArgReader(args)
	out := DeleteFilterArgs{FilterID: r.requiredString("filterId")}
	return out, r.err(ToolDeleteFilter)
}
