package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"query": "  park ", "count": 3}

	assert.Equal(t, "park", StringArg(args, "query"))
	assert.Empty(t, StringArg(args, "count"))
	assert.Empty(t, StringArg(args, "missing"))

	_, err := RequiredStringArg(map[string]interface{}{"query": "   "}, "query")
	assert.EqualError(t, err, "query is required")
}

func TestNumberArg(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    float64
		wantOK  bool
		wantErr bool
	}{
		{"float", 40.78, 40.78, true, false},
		{"int", 500, 500, true, false},
		{"string", " -73.96 ", -73.96, true, false},
		{"empty string", "", 0, false, false},
		{"nil", nil, 0, false, false},
		{"garbage", "12abc", 0, false, true},
		{"bool", true, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NumberArg(map[string]interface{}{"n": tt.value}, "n")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok, err := NumberArg(map[string]interface{}{}, "n")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBoolArg(t *testing.T) {
	assert.True(t, BoolArg(map[string]interface{}{"pending": true}, "pending"))
	assert.False(t, BoolArg(map[string]interface{}{"pending": "yes"}, "pending"))
	assert.False(t, BoolArg(nil, "pending"))
}
