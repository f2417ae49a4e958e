package disclosure

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TrustScore is the persisted trust value as it arrives from callers.
// Decoding never fails: numbers and numeric strings are kept, anything else
// (null, booleans, objects, garbage) becomes NaN and resolves to layer 0.
type TrustScore float64

// UnmarshalJSON implements json.Unmarshaler.
func (t *TrustScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = TrustScore(math.NaN())
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*t = TrustScore(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			*t = TrustScore(parsed)
			return nil
		}
	}

	*t = TrustScore(math.NaN())
	return nil
}

// MarshalJSON encodes non-finite scores as null.
func (t TrustScore) MarshalJSON() ([]byte, error) {
	f := float64(t)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Float64 returns the raw score.
func (t TrustScore) Float64() float64 {
	return float64(t)
}

// Layer resolves the score with no override.
func (t TrustScore) Layer() Layer {
	return Resolve(float64(t), nil)
}
