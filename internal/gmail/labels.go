package gmail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// ListLabels lists every label on the account.
func (c *Client) ListLabels(ctx context.Context) ([]*Label, error) {
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]*Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, convertLabel(l))
	}
	return labels, nil
}

// CreateLabel creates a user label visible in both the label list and the
// message list. Hidden labels are not exposed.
func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return convertLabel(created), nil
}

func convertLabel(l *gmail.Label) *Label {
	labelType := l.Type
	if labelType == "" {
		labelType = "user"
	}
	return &Label{
		ID:   l.Id,
		Name: l.Name,
		Type: strings.ToLower(labelType),
	}
}
