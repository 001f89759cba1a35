package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLocalStackOptionalModules(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, feedMessages, `[]`)

	stack := NewLocalStack(dir)

	_, hasMessages := stack.Messages()
	assert.True(t, hasMessages)
	_, hasCallLogs := stack.CallLogs()
	assert.False(t, hasCallLogs, "missing feed file means no call log module")
}

func TestLocalContacts(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, feedContacts, `[{"name":"Ada","phoneNumbers":[{"number":"+1 555 0100"}]}]`)

	stack := NewLocalStack(dir)
	contacts := stack.Contacts()
	ctx := context.Background()

	granted, err := contacts.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	listed, err := contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ada", listed[0].Name)

	require.True(t, contacts.CanAdd())
	id, err := contacts.Add(ctx, Contact{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	listed, err = contacts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestLocalContactsMissingFeed(t *testing.T) {
	stack := NewLocalStack(t.TempDir())

	listed, err := stack.Contacts().List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestLocalMessagesLimit(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, feedMessages, `[{"body":"1"},{"body":"2"},{"body":"3"}]`)

	messages, ok := NewLocalStack(dir).Messages()
	require.True(t, ok)

	records, err := messages.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLocalMessagesInsertKeepsBox(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, feedMessages, `[]`)

	messages, ok := NewLocalStack(dir).Messages()
	require.True(t, ok)
	ctx := context.Background()

	err := messages.Insert(ctx, BoxSent, MessageRecord{Address: "+15550100", Body: "hi", Type: 2})
	require.NoError(t, err)

	records, err := messages.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal(records[0], &got))
	assert.Equal(t, "sent", got["box"])
	assert.Equal(t, "hi", got["body"])
}

func TestLocalCallLogs(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, feedCallLogs, `[{"number":"+15550100"}]`)

	callLogs, ok := NewLocalStack(dir).CallLogs()
	require.True(t, ok)
	ctx := context.Background()

	records, err := callLogs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, callLogs.Insert(ctx, CallRecord{Number: "+15550101", Type: 2}))
	records, err = callLogs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
