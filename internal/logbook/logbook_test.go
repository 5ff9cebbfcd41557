package logbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndQuery(t *testing.T) {
	lb := Open(filepath.Join(t.TempDir(), "logbook.jsonl"))

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Timestamp: base, OperatorID: "ops-1", Action: ActionPlacement, ItemID: "item-1",
			Details: Details{ToContainer: "contA"}},
		{Timestamp: base.Add(time.Hour), OperatorID: "ops-2", Action: ActionRetrieval, ItemID: "item-1",
			Details: Details{FromContainer: "contA", Reason: "scheduled use"}},
		{Timestamp: base.Add(2 * time.Hour), OperatorID: "ops-1", Action: ActionPlacement, ItemID: "item-2",
			Details: Details{ToContainer: "contB"}},
	}
	for _, e := range entries {
		require.NoError(t, lb.Append(e))
	}

	all, err := lb.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "item-1", all[0].ItemID)

	byItem, err := lb.Query(Filter{ItemID: "item-1"})
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	byAction, err := lb.Query(Filter{Action: ActionRetrieval})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "scheduled use", byAction[0].Details.Reason)

	byWindow, err := lb.Query(Filter{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, byWindow, 1)
	assert.Equal(t, ActionRetrieval, byWindow[0].Action)
}

func TestManualMovesAndExportsAreQueryable(t *testing.T) {
	lb := Open(filepath.Join(t.TempDir(), "logbook.jsonl"))

	require.NoError(t, lb.Append(Entry{OperatorID: "ops-1", Action: ActionUpdateLocation,
		ItemID: "item-1", Details: Details{ToContainer: "contB", Reason: "manual placement"}}))
	require.NoError(t, lb.Append(Entry{OperatorID: "ops-1", Action: ActionExport,
		Details: Details{Reason: "exported manifest.csv"}}))

	moves, err := lb.Query(Filter{Action: ActionUpdateLocation})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "contB", moves[0].Details.ToContainer)

	exports, err := lb.Query(Filter{Action: ActionExport})
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, "exported manifest.csv", exports[0].Details.Reason)
}

func TestAppendFillsTimestamp(t *testing.T) {
	lb := Open(filepath.Join(t.TempDir(), "logbook.jsonl"))

	require.NoError(t, lb.Append(Entry{OperatorID: "ops-1", Action: ActionImport}))

	got, err := lb.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestQueryMissingFile(t *testing.T) {
	lb := Open(filepath.Join(t.TempDir(), "never-written.jsonl"))

	got, err := lb.Query(Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuerySkipsTornLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logbook.jsonl")
	lb := Open(path)
	require.NoError(t, lb.Append(Entry{OperatorID: "ops-1", Action: ActionPlacement, ItemID: "item-1"}))

	// Simulate a crash mid-append.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"timestamp":"2026-03-01T10:`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := lb.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "item-1", got[0].ItemID)
}
