package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt is an optional int that can be unmarshaled from either a JSON
// number or a JSON string. Unlike FlexFloat64, a malformed value is an
// error: quantity corruption means the payload itself is broken.
type FlexInt struct {
	value *int
}

// NewFlexInt builds a set FlexInt, mainly for tests.
func NewFlexInt(v int) FlexInt {
	return FlexInt{value: &v}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.value = nil

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		f.value = &n
		return nil
	}

	// Oracles sometimes quote numbers; accept whole-number floats too.
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		n = int(fl)
		f.value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("FlexInt: invalid int string %q: %w", s, err)
		}
		f.value = &v
		return nil
	}

	return fmt.Errorf("FlexInt: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}

// Ptr returns the value as *int, nil when unset.
func (f FlexInt) Ptr() *int {
	return f.value
}
