package disclosure

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrustScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantNaN bool
	}{
		{name: "number", input: `0.45`, want: 0.45},
		{name: "integer", input: `1`, want: 1},
		{name: "numeric string", input: `" 0.7 "`, want: 0.7},
		{name: "null", input: `null`, wantNaN: true},
		{name: "boolean", input: `true`, wantNaN: true},
		{name: "garbage string", input: `"very high"`, wantNaN: true},
		{name: "object", input: `{"value":0.9}`, wantNaN: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				Trust TrustScore `json:"trust"`
			}
			err := json.Unmarshal([]byte(`{"trust":`+tt.input+`}`), &payload)
			require.NoError(t, err)
			if tt.wantNaN {
				assert.True(t, math.IsNaN(payload.Trust.Float64()), "expected NaN, got %v", payload.Trust)
				assert.Equal(t, LayerPureGame, payload.Trust.Layer())
				return
			}
			assert.InDelta(t, tt.want, payload.Trust.Float64(), 1e-9)
		})
	}
}

func TestTrustScore_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(TrustScore(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(TrustScore(0.5))
	require.NoError(t, err)
	assert.Equal(t, "0.5", string(data))
}
