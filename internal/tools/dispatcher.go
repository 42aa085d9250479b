package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/instrumentation"
	"github.com/mailpilot-ai/mailpilot/internal/logging"
	"github.com/mailpilot-ai/mailpilot/internal/session"
)

// Mailbox is the Gmail surface the dispatcher executes against. *gmail.Client
// satisfies it; tests substitute a fake.
type Mailbox interface {
	Search(ctx context.Context, query string, maxResults int64) ([]*gmail.Message, error)
	Read(ctx context.Context, id string) (*gmail.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
	Send(ctx context.Context, req gmail.SendRequest) (string, error)
	ModifyLabels(ctx context.Context, ids, add, remove []string) (int, error)
	BatchOperate(ctx context.Context, query string, op gmail.BatchOperation) (*gmail.BatchResult, error)
	ListLabels(ctx context.Context) ([]*gmail.Label, error)
	CreateLabel(ctx context.Context, name string) (*gmail.Label, error)
	CreateFilter(ctx context.Context, criteria gmail.FilterCriteria, action gmail.FilterAction) (*gmail.FilterInfo, error)
	ListFilters(ctx context.Context) ([]*gmail.FilterInfo, error)
	DeleteFilter(ctx context.Context, id string) error
}

// Confirmer gates destructive operations. action is a human-readable
// description of what is about to happen.
type Confirmer interface {
	Confirm(ctx context.Context, action string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, action string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, action string) (bool, error) {
	return f(ctx, action)
}

// AutoApprove approves every action without asking.
func AutoApprove() Confirmer {
	return ConfirmerFunc(func(context.Context, string) (bool, error) { return true, nil })
}

// AutoDeny declines every action. Used by non-interactive transports where no
// prompt is possible.
func AutoDeny() Confirmer {
	return ConfirmerFunc(func(context.Context, string) (bool, error) { return false, nil })
}

// Result is the normalized outcome of a dispatched tool call. Exactly one of
// Result and the dispatch error is meaningful. A cancelled result is a
// successful no-op: the user declined the operation and nothing was executed.
type Result struct {
	Tool      string   `json:"tool"`
	Cancelled bool     `json:"cancelled,omitempty"`
	Operation string   `json:"operation,omitempty"`
	Data      any      `json:"data,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// SearchResult is the payload for search_emails.
type SearchResult struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Messages []*gmail.Message `json:"messages"`
}

// AttachmentResult is the payload for get_attachment. Content serializes as
// base64 in JSON.
type AttachmentResult struct {
	MessageID    string `json:"messageId"`
	AttachmentID string `json:"attachmentId"`
	Size         int    `json:"size"`
	Content      []byte `json:"content"`
}

// SendResult is the payload for send_email.
type SendResult struct {
	MessageID string `json:"messageId"`
	ThreadID  string `json:"threadId,omitempty"`
}

// ModifyResult is the payload for modify_labels.
type ModifyResult struct {
	Affected      int      `json:"affected"`
	MessageIDs    []string `json:"messageIds"`
	AddedLabels   []string `json:"addedLabels,omitempty"`
	RemovedLabels []string `json:"removedLabels,omitempty"`
}

// DeletedFilter is the payload for delete_filter.
type DeletedFilter struct {
	FilterID string `json:"filterId"`
}

// Dispatcher validates tool calls, resolves contextual references against the
// session, gates destructive operations behind the confirmer, and executes
// against the mailbox.
type Dispatcher struct {
	mail       Mailbox
	session    *session.Context
	confirm    Confirmer
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	maxResults int64
}

// NewDispatcher wires a dispatcher. logger must not be nil; pass
// slog.Default() if no dedicated logger exists.
func NewDispatcher(mail Mailbox, sess *session.Context, confirm Confirmer, logger *slog.Logger) *Dispatcher {
	if confirm == nil {
		confirm = AutoDeny()
	}
	return &Dispatcher{
		mail:       mail,
		session:    sess,
		confirm:    confirm,
		logger:     logger,
		maxResults: gmail.DefaultMaxResults,
	}
}

// SetMaxSearchResults overrides the search result cap used when a call gives
// no explicit maxResults.
func (d *Dispatcher) SetMaxSearchResults(n int) {
	if n > 0 {
		d.maxResults = int64(n)
	}
}

// SetMetrics attaches metric recording. A nil metrics disables it.
func (d *Dispatcher) SetMetrics(m *instrumentation.Metrics) {
	d.metrics = m
}

// Session exposes the dispatcher's session context for prompt construction.
func (d *Dispatcher) Session() *session.Context {
	return d.session
}

// Dispatch runs one tool call through the full pipeline. A non-nil error
// means the call failed validation or execution; a cancelled Result means the
// user declined and nothing ran.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (*Result, error) {
	start := time.Now()
	res, err := d.dispatch(ctx, name, args)

	status := logging.StatusSuccess
	switch {
	case err != nil:
		status = logging.StatusError
	case res.Cancelled:
		status = logging.StatusCancelled
	}

	logging.WithTool(d.logger, name).Info("tool dispatched",
		logging.Status(status),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Err(err),
	)
	if d.metrics != nil {
		d.metrics.RecordToolInvocation(ctx, name, status, time.Since(start))
	}
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args map[string]any) (*Result, error) {
	switch name {
	case ToolSearchEmails:
		return d.searchEmails(ctx, args)
	case ToolReadEmail:
		return d.readEmail(ctx, args)
	case ToolGetAttachment:
		return d.getAttachment(ctx, args)
	case ToolSendEmail:
		return d.sendEmail(ctx, args)
	case ToolModifyLabels:
		return d.modifyLabels(ctx, args)
	case ToolBatchOperation:
		return d.batchOperation(ctx, args)
	case ToolListLabels:
		return d.listLabels(ctx)
	case ToolCreateLabel:
		return d.createLabel(ctx, args)
	case ToolCreateFilter:
		return d.createFilter(ctx, args)
	case ToolListFilters:
		return d.listFilters(ctx)
	case ToolDeleteFilter:
		return d.deleteFilter(ctx, args)
	default:
		return nil, &UnknownToolError{Tool: name}
	}
}

func (d *Dispatcher) searchEmails(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseSearchArgs(args, d.maxResults)
	if err != nil {
		return nil, err
	}

	msgs, err := d.mail.Search(ctx, a.Query, a.MaxResults)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	d.session.RecordSearch(ids)

	return &Result{
		Tool: ToolSearchEmails,
		Data: SearchResult{Query: a.Query, Count: len(msgs), Messages: msgs},
	}, nil
}

func (d *Dispatcher) readEmail(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseReadArgs(args)
	if err != nil {
		return nil, err
	}

	id := d.session.ResolveMessageID(a.MessageID)
	msg, err := d.mail.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	d.session.RecordRead(msg.ID)

	return &Result{Tool: ToolReadEmail, Data: msg}, nil
}

func (d *Dispatcher) getAttachment(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseGetAttachmentArgs(args)
	if err != nil {
		return nil, err
	}

	id := d.session.ResolveMessageID(a.MessageID)
	data, err := d.mail.GetAttachment(ctx, id, a.AttachmentID)
	if err != nil {
		return nil, err
	}

	return &Result{
		Tool: ToolGetAttachment,
		Data: AttachmentResult{
			MessageID:    id,
			AttachmentID: a.AttachmentID,
			Size:         len(data),
			Content:      data,
		},
	}, nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseSendArgs(args)
	if err != nil {
		return nil, err
	}

	id, err := d.mail.Send(ctx, gmail.SendRequest{
		To:       a.To,
		Cc:       a.Cc,
		Bcc:      a.Bcc,
		Subject:  a.Subject,
		Body:     a.Body,
		ThreadID: a.ThreadID,
	})
	if err != nil {
		return nil, err
	}

	// Recipients are PII; log only their hashes.
	anon := make([]string, len(a.To))
	for i, addr := range a.To {
		anon[i] = logging.AnonymizeEmail(addr)
	}
	d.logger.Info("email sent",
		logging.Operation("send"),
		slog.Any("to", anon),
		slog.String("messageId", id),
	)

	return &Result{
		Tool: ToolSendEmail,
		Data: SendResult{MessageID: id, ThreadID: a.ThreadID},
	}, nil
}

func (d *Dispatcher) modifyLabels(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseModifyLabelsArgs(args)
	if err != nil {
		return nil, err
	}

	ids := d.session.ResolveMessageIDList(a.MessageIDs)

	res := &Result{Tool: ToolModifyLabels}
	lr := &labelResolver{d: d}
	add := lr.resolve(ctx, a.AddLabels, res)
	remove := lr.resolve(ctx, a.RemoveLabels, res)
	if len(add) == 0 && len(remove) == 0 {
		// Every requested label was dropped; nothing left to do.
		res.Data = ModifyResult{Affected: 0, MessageIDs: ids}
		return res, nil
	}

	affected, err := d.mail.ModifyLabels(ctx, ids, add, remove)
	if err != nil {
		return nil, err
	}

	res.Data = ModifyResult{
		Affected:      affected,
		MessageIDs:    ids,
		AddedLabels:   add,
		RemovedLabels: remove,
	}
	return res, nil
}

func (d *Dispatcher) batchOperation(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseBatchArgs(args)
	if err != nil {
		return nil, err
	}
	op := gmail.BatchOperation(a.Operation)

	if op == gmail.BatchDelete || op == gmail.BatchArchive {
		action := fmt.Sprintf("%s up to %d messages matching %q", a.Operation, gmail.BatchLimit, a.Query)
		ok, err := d.confirm.Confirm(ctx, action)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Result{Tool: ToolBatchOperation, Cancelled: true, Operation: a.Operation}, nil
		}
	}

	batch, err := d.mail.BatchOperate(ctx, a.Query, op)
	if err != nil {
		return nil, err
	}

	return &Result{Tool: ToolBatchOperation, Operation: a.Operation, Data: batch}, nil
}

func (d *Dispatcher) listLabels(ctx context.Context) (*Result, error) {
	labels, err := d.mail.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	d.session.RefreshLabels(labels)

	return &Result{Tool: ToolListLabels, Data: labels}, nil
}

func (d *Dispatcher) createLabel(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseCreateLabelArgs(args)
	if err != nil {
		return nil, err
	}

	label, err := d.mail.CreateLabel(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	d.session.AddLabel(label)

	return &Result{Tool: ToolCreateLabel, Data: label}, nil
}

func (d *Dispatcher) createFilter(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseCreateFilterArgs(args)
	if err != nil {
		return nil, err
	}

	res := &Result{Tool: ToolCreateFilter}
	lr := &labelResolver{d: d}
	a.Action.AddLabelIDs = lr.resolve(ctx, a.Action.AddLabelIDs, res)
	a.Action.RemoveLabelIDs = lr.resolve(ctx, a.Action.RemoveLabelIDs, res)
	if emptyFilterAction(a.Action) {
		// Every label the action referenced was dropped; creating the
		// filter now would do nothing.
		return res, nil
	}

	if a.Action.RemovesInbox() {
		ok, err := d.confirm.Confirm(ctx, "create a filter that removes matching mail from the inbox")
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Cancelled = true
			res.Operation = "create_filter"
			return res, nil
		}
	}

	filter, err := d.mail.CreateFilter(ctx, a.Criteria, a.Action)
	if err != nil {
		return nil, err
	}

	res.Data = filter
	return res, nil
}

func (d *Dispatcher) listFilters(ctx context.Context) (*Result, error) {
	filters, err := d.mail.ListFilters(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Tool: ToolListFilters, Data: filters}, nil
}

func (d *Dispatcher) deleteFilter(ctx context.Context, args map[string]any) (*Result, error) {
	a, err := parseDeleteFilterArgs(args)
	if err != nil {
		return nil, err
	}
	if err := d.mail.DeleteFilter(ctx, a.FilterID); err != nil {
		return nil, err
	}
	return &Result{Tool: ToolDeleteFilter, Data: DeletedFilter{FilterID: a.FilterID}}, nil
}

// labelResolver maps label names to ids through the session cache, refreshing
// the cache from the mailbox at most once per dispatch. Names that still miss
// after a refresh are dropped with a warning instead of failing the call.
type labelResolver struct {
	d         *Dispatcher
	refreshed bool
}

func (lr *labelResolver) resolve(ctx context.Context, names []string, res *Result) []string {
	var ids []string
	for _, name := range names {
		id, ok := lr.d.session.LabelID(name)
		if !ok && !lr.refreshed {
			lr.refreshed = true
			if labels, err := lr.d.mail.ListLabels(ctx); err == nil {
				lr.d.session.RefreshLabels(labels)
			} else {
				lr.d.logger.Warn("label cache refresh failed", logging.Err(err))
			}
			id, ok = lr.d.session.LabelID(name)
		}
		if !ok {
			lr.d.logger.Warn("skipping unknown label", slog.String("label", name))
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown label %q skipped", name))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
