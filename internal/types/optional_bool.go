package types

import "encoding/json"

// OptionalBool distinguishes three JSON states: absent, explicit null,
// and a set boolean. Needed for the tri-state is_accepted flag, where an
// explicit null resets an item to undecided.
type OptionalBool struct {
	Present bool
	Value   *bool
}

// UnmarshalJSON implements the json.Unmarshaler interface. It only runs
// when the key is present, so Present is always true here.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Value = nil

	if string(data) == "null" {
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	o.Value = &b
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (o OptionalBool) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
