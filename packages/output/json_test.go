package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_History(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewJSONFormatter(JSONWithWriter(buf))

	f.FormatHistory([]*history.Entry{
		{
			ID:         "tx-1",
			Time:       time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
			Method:     "GET",
			URL:        "http://a/",
			Command:    "httpc get http://a/",
			StatusCode: 200,
			Bytes:      42,
			Duration:   1500 * time.Microsecond,
		},
	})
	require.NoError(t, f.Flush())

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Transactions, 1)
	assert.Nil(t, out.Stats)

	tx := out.Transactions[0]
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "2026-10-17T09:30:00Z", tx.Time)
	assert.Equal(t, 200, tx.StatusCode)
	assert.Equal(t, 42, tx.Bytes)
	assert.InDelta(t, 1.5, tx.Duration, 1e-9)
	assert.Empty(t, tx.Error)
}

func TestJSONFormatter_EmptyHistory(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewJSONFormatter(JSONWithWriter(buf))
	require.NoError(t, f.Flush())

	assert.Contains(t, buf.String(), "\"transactions\": []")
}

func TestJSONFormatter_Stats(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewJSONFormatter(JSONWithWriter(buf))

	f.FormatStats(&history.Stats{
		Total:  2,
		Errors: 1,
		Min:    2 * time.Millisecond,
		P99:    250 * time.Millisecond,
	})
	require.NoError(t, f.Flush())

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.NotNil(t, out.Stats)
	assert.Equal(t, int64(2), out.Stats.Total)
	assert.InDelta(t, 0.5, out.Stats.ErrorRate, 1e-9)
	assert.InDelta(t, 2.0, out.Stats.Min, 1e-9)
	assert.InDelta(t, 250.0, out.Stats.P99, 1e-9)
}
