package types

import "encoding/json"

// NullableString distinguishes an absent string from an empty one.
type NullableString struct {
	Value string
	Valid bool // Valid is true if Value is not nil
}

func (ns NullableString) String() string {
	if ns.Valid {
		return ns.Value
	}
	return ""
}

func (ns NullableString) IsNil() bool {
	return !ns.Valid
}

var _ json.Marshaler = &NullableString{}   // Ensure NullableString implements json.Marshaler
var _ json.Unmarshaler = &NullableString{} // Ensure NullableString implements json.Unmarshaler

func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(nil)
}

func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		ns.Value = ""
		ns.Valid = false
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}
