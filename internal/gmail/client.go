package gmail

import (
	"context"
	"fmt"
	"sync"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mailpilot-ai/mailpilot/internal/google"
	"github.com/mailpilot-ai/mailpilot/internal/instrumentation"
	"github.com/mailpilot-ai/mailpilot/internal/logging"
)

const (
	// DefaultMaxResults bounds a search when the caller gives no limit.
	DefaultMaxResults = 10

	// BatchLimit caps the number of messages a batch operation touches.
	BatchLimit = 100

	// metadataWorkers bounds the concurrent per-message metadata fetches
	// during a search. Results are recombined in request order.
	metadataWorkers = 10
)

// metadataHeaders are the headers fetched for search results.
var metadataHeaders = []string{"Subject", "From", "To", "Date"}

// Client wraps the Gmail Users service.
type Client struct {
	svc     *gmail.UsersService
	metrics *instrumentation.Metrics
}

// SetMetrics attaches operation metric recording. A nil metrics disables it.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// record emits one operation metric. Safe without metrics attached.
func (c *Client) record(ctx context.Context, op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	c.metrics.RecordGmailOperation(ctx, op, status, time.Since(start))
}

// HasToken checks if a valid OAuth token exists.
func HasToken() bool {
	return google.HasToken()
}

// NewClient creates a Gmail client authenticated with the cached OAuth token.
func NewClient(ctx context.Context, creds google.Credentials) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// Search lists messages matching query, bounded by maxResults, then fetches
// per-message metadata for each hit. Metadata fetches run concurrently but
// the result order matches the server's listing order (newest first).
// Zero matches yield an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) (_ []*Message, err error) {
	start := time.Now()
	defer func() { c.record(ctx, "search", start, err) }()

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	res, err := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}

	messages, err := c.fetchMetadata(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	return messages, nil
}

// fetchMetadata fetches message metadata for each id through a bounded worker
// pool, preserving the input order in the output.
func (c *Client) fetchMetadata(ctx context.Context, ids []string) ([]*Message, error) {
	messages := make([]*Message, len(ids))
	if len(ids) == 0 {
		return []*Message{}, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, metadataWorkers)

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			msg, err := c.svc.Messages.Get("me", id).
				Format("metadata").
				MetadataHeaders(metadataHeaders...).
				Context(ctx).Do()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to get metadata for message %s: %w", id, err)
				}
				mu.Unlock()
				return
			}
			messages[i] = parseMessage(msg)
		}(i, id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return messages, nil
}

// Read fetches the full message including its decoded plain-text body and
// attachment metadata.
func (c *Client) Read(ctx context.Context, id string) (_ *Message, err error) {
	start := time.Now()
	defer func() { c.record(ctx, "read", start, err) }()

	msg, err := c.svc.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read email %s: %w", id, err)
	}
	return parseMessage(msg), nil
}

// ModifyLabels applies the add/remove label-id sets to each message id with
// one modify call per id. It returns the count of successfully modified
// messages; a partial failure reports the count alongside the first error.
func (c *Client) ModifyLabels(ctx context.Context, ids, add, remove []string) (_ int, err error) {
	start := time.Now()
	defer func() { c.record(ctx, "modify_labels", start, err) }()

	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}

	modified := 0
	var firstErr error
	for _, id := range ids {
		if _, err := c.svc.Messages.Modify("me", id, req).Context(ctx).Do(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to modify labels on message %s: %w", id, err)
			}
			continue
		}
		modified++
	}
	return modified, firstErr
}

// Trash moves a message to the trash.
func (c *Client) Trash(ctx context.Context, id string) error {
	if _, err := c.svc.Messages.Trash("me", id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to trash message %s: %w", id, err)
	}
	return nil
}

// BatchOperate resolves query to a bounded set of message ids, then applies
// the operation to each. The resolved id list is returned so callers can
// record it as session context.
func (c *Client) BatchOperate(ctx context.Context, query string, op BatchOperation) (_ *BatchResult, err error) {
	start := time.Now()
	defer func() { c.record(ctx, "batch_"+string(op), start, err) }()

	if !op.Valid() {
		return nil, fmt.Errorf("unsupported batch operation %q", op)
	}

	res, err := c.svc.Messages.List("me").Q(query).MaxResults(BatchLimit).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to perform batch %s: %w", op, err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}

	result := &BatchResult{Operation: op, MessageIDs: ids}
	if len(ids) == 0 {
		return result, nil
	}

	if op == BatchDelete {
		for _, id := range ids {
			if err := c.Trash(ctx, id); err != nil {
				return result, fmt.Errorf("failed to perform batch %s: %w", op, err)
			}
			result.Affected++
		}
		return result, nil
	}

	add, remove := op.labelSets()
	affected, err := c.ModifyLabels(ctx, ids, add, remove)
	result.Affected = affected
	if err != nil {
		return result, fmt.Errorf("failed to perform batch %s: %w", op, err)
	}
	return result, nil
}

// labelSets maps a label-based batch operation onto add/remove label ids.
func (op BatchOperation) labelSets() (add, remove []string) {
	switch op {
	case BatchArchive:
		return nil, []string{labelInbox}
	case BatchMarkRead:
		return nil, []string{labelUnread}
	case BatchMarkUnread:
		return []string{labelUnread}, nil
	case BatchStar:
		return []string{labelStarred}, nil
	case BatchUnstar:
		return nil, []string{labelStarred}
	}
	return nil, nil
}
