package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", date.String())

	_, err = ParseDate("2025/03/14")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	in := payload{Date: NewDate(2025, time.March, 14)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-03-14"}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Date.Equal(out.Date))
}

func TestDateScanAcceptsTimeAndString(t *testing.T) {
	var date Date
	require.NoError(t, date.Scan(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-14", date.String())

	require.NoError(t, date.Scan("2025-04-01"))
	assert.Equal(t, "2025-04-01", date.String())

	assert.Error(t, date.Scan(42))
}
