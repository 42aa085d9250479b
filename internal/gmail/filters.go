package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// CreateFilter creates a Gmail filter. The Archive, MarkAsRead and Star
// convenience flags are folded into the label-id sets before submission.
func (c *Client) CreateFilter(ctx context.Context, criteria FilterCriteria, action FilterAction) (*FilterInfo, error) {
	gmailCriteria := &gmail.FilterCriteria{
		From:          criteria.From,
		To:            criteria.To,
		Subject:       criteria.Subject,
		Query:         criteria.Query,
		HasAttachment: criteria.HasAttachment,
	}

	gmailAction := &gmail.FilterAction{
		AddLabelIds:    append([]string(nil), action.AddLabelIDs...),
		RemoveLabelIds: append([]string(nil), action.RemoveLabelIDs...),
		Forward:        action.Forward,
	}

	if action.Archive && !contains(gmailAction.RemoveLabelIds, labelInbox) {
		gmailAction.RemoveLabelIds = append(gmailAction.RemoveLabelIds, labelInbox)
	}
	if action.MarkAsRead && !contains(gmailAction.RemoveLabelIds, labelUnread) {
		gmailAction.RemoveLabelIds = append(gmailAction.RemoveLabelIds, labelUnread)
	}
	if action.Star && !contains(gmailAction.AddLabelIds, labelStarred) {
		gmailAction.AddLabelIds = append(gmailAction.AddLabelIds, labelStarred)
	}

	created, err := c.svc.Settings.Filters.Create("me", &gmail.Filter{
		Criteria: gmailCriteria,
		Action:   gmailAction,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}

	return convertFilter(created), nil
}

// ListFilters lists all Gmail filters for the account.
func (c *Client) ListFilters(ctx context.Context) ([]*FilterInfo, error) {
	res, err := c.svc.Settings.Filters.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}

	filters := make([]*FilterInfo, 0, len(res.Filter))
	for _, f := range res.Filter {
		filters = append(filters, convertFilter(f))
	}
	return filters, nil
}

// DeleteFilter deletes a filter by id. Filters are immutable once created;
// changing one means delete and recreate.
func (c *Client) DeleteFilter(ctx context.Context, id string) error {
	if err := c.svc.Settings.Filters.Delete("me", id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", id, err)
	}
	return nil
}

// convertFilter converts an API filter to FilterInfo, recovering the
// convenience flags from the label-id sets.
func convertFilter(f *gmail.Filter) *FilterInfo {
	info := &FilterInfo{ID: f.Id}

	if f.Criteria != nil {
		info.Criteria = FilterCriteria{
			From:          f.Criteria.From,
			To:            f.Criteria.To,
			Subject:       f.Criteria.Subject,
			Query:         f.Criteria.Query,
			HasAttachment: f.Criteria.HasAttachment,
		}
	}

	if f.Action != nil {
		info.Action = FilterAction{
			AddLabelIDs:    f.Action.AddLabelIds,
			RemoveLabelIDs: f.Action.RemoveLabelIds,
			Forward:        f.Action.Forward,
			Archive:        contains(f.Action.RemoveLabelIds, labelInbox),
			MarkAsRead:     contains(f.Action.RemoveLabelIds, labelUnread),
			Star:           contains(f.Action.AddLabelIds, labelStarred),
		}
	}

	return info
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
