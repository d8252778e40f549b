package notify

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier(t *testing.T) {
	log, hook := test.NewNullLogger()

	err := NewLogNotifier(log).Notify(context.Background(), "user-7", Message{
		Kind:       KindReminder,
		TenantID:   "tenant-1",
		DocumentID: "doc-1",
		Subject:    "Please acknowledge DOC-INS-001",
	})

	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Please acknowledge DOC-INS-001", entry.Message)
	assert.Equal(t, "user-7", entry.Data["recipient_id"])
	assert.Equal(t, KindReminder, entry.Data["kind"])
}
