package gmail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchOperationValid(t *testing.T) {
	for _, op := range BatchOperations {
		assert.True(t, op.Valid(), "operation %s should be valid", op)
	}
	assert.False(t, BatchOperation("purge").Valid())
	assert.False(t, BatchOperation("").Valid())
}

func TestBatchOperationLabelSets(t *testing.T) {
	tests := []struct {
		op     BatchOperation
		add    []string
		remove []string
	}{
		{BatchArchive, nil, []string{"INBOX"}},
		{BatchMarkRead, nil, []string{"UNREAD"}},
		{BatchMarkUnread, []string{"UNREAD"}, nil},
		{BatchStar, []string{"STARRED"}, nil},
		{BatchUnstar, nil, []string{"STARRED"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			add, remove := tt.op.labelSets()
			assert.Equal(t, tt.add, add)
			assert.Equal(t, tt.remove, remove)
		})
	}
}

func TestBatchOperateRejectsUnknownOperation(t *testing.T) {
	client := &Client{}

	_, err := client.BatchOperate(context.Background(), "in:inbox", "explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported batch operation")
}

func TestFetchMetadataEmptyInput(t *testing.T) {
	client := &Client{}

	messages, err := client.fetchMetadata(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
