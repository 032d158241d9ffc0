package types

import (
	"encoding/json"
	"strconv"
)

// FlexFloat64 is an optional float64 for oracle-produced confidence values.
// JSON numbers and numeric strings parse; null, wrong types, and malformed
// strings all unmarshal to unset rather than failing, so a sloppy oracle
// cannot abort decoding an otherwise valid payload.
type FlexFloat64 struct {
	value *float64
}

// NewFlexFloat64 builds a set FlexFloat64, mainly for tests.
func NewFlexFloat64(v float64) FlexFloat64 {
	return FlexFloat64{value: &v}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	f.value = nil

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value = &v
		}
		return nil
	}

	// Wrong type entirely (bool, object, array): unset, not an error.
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexFloat64) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}

// Ptr returns the value as *float64, nil when unset.
func (f FlexFloat64) Ptr() *float64 {
	return f.value
}
