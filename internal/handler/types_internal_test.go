package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "bold name", sanitize("<b>bold</b> name"))
	assert.Equal(t, "plain", sanitize("plain"))
	assert.Equal(t, "Bob's dishes", sanitize("Bob's dishes"))
	assert.Equal(t, "Fish & Chips, 1 < 2", sanitize("Fish & Chips, 1 < 2"))
	assert.Equal(t, `say "hi"`, sanitize(`say "hi"`))
	assert.Equal(t, "after dinner", sanitize("<script>alert(1)</script>after dinner"))
}

func TestJSONID(t *testing.T) {
	var body struct {
		A jsonID `json:"a"`
		B jsonID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 4, "b": "17"}`), &body))
	assert.Equal(t, jsonID(4), body.A)
	assert.Equal(t, jsonID(17), body.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "four"}`), &body))
}

func TestUpdateTaskRequest_Nullable(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_assigned_id": null, "category_id": 3}`), &req))

	assert.True(t, req.UserAssignedID.Set)
	assert.Nil(t, req.UserAssignedID.Value)
	assert.True(t, req.CategoryID.Set)
	assert.Equal(t, int64(3), *req.CategoryID.Value)
	assert.False(t, req.TimeStart.Set)
	assert.False(t, req.empty())

	assert.True(t, (&UpdateTaskRequest{}).empty())
}

func TestJSONTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-05-04T18:00:00Z"`, time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)},
		{`"2026-05-04T18:00:00"`, time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)},
		{`"2026-05-04 18:00:00"`, time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)},
		{`"2026-05-04"`, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var got jsonTime
		require.NoError(t, got.UnmarshalJSON([]byte(tt.in)), tt.in)
		assert.True(t, tt.want.Equal(time.Time(got)), tt.in)
	}

	var got jsonTime
	assert.Error(t, got.UnmarshalJSON([]byte(`"soon"`)))
	assert.Error(t, got.UnmarshalJSON([]byte(`12`)))
}
