package types

import "encoding/json"

type ObjectName = string

// ObjectMetadata is what the interpreter reports about a workspace variable.
// It is kept as the raw JSON it arrived as and carried through the cache
// untouched, whatever members it has.
type ObjectMetadata json.RawMessage

var _ json.Marshaler = ObjectMetadata(nil)
var _ json.Unmarshaler = (*ObjectMetadata)(nil)

func (m ObjectMetadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *ObjectMetadata) UnmarshalJSON(data []byte) error {
	*m = append(ObjectMetadata(nil), data...)
	return nil
}

// Type returns the "type" member, or "" when it is absent or not a string.
func (m ObjectMetadata) Type() string {
	var v struct {
		Type json.RawMessage `json:"type"`
	}
	if len(m) == 0 || json.Unmarshal(m, &v) != nil {
		return ""
	}
	var typ string
	if json.Unmarshal(v.Type, &typ) != nil {
		return ""
	}
	return typ
}

// ObjectDescriptor is one entry of a workspace listing or an assign event.
type ObjectDescriptor struct {
	Name     ObjectName     `json:"name" validate:"required"`
	Hidden   bool           `json:"hidden"`
	Metadata ObjectMetadata `json:"metadata,omitempty"`
}

// FormatProfile describes how a delimited text file is laid out.
type FormatProfile struct {
	Header bool   `json:"header"`
	Sep    string `json:"sep"`
	Quote  string `json:"quote"`
}

// BaselineProfile is a named reader command together with its default
// formatting.
type BaselineProfile struct {
	Label string `json:"label"`
	FormatProfile
}

// ImportRequest is a user's request to import a data file into a variable.
type ImportRequest struct {
	FormatProfile
	File    string `json:"file" validate:"required"`
	Varname string `json:"varname,omitempty" validate:"omitempty,symbolNameValidator"`
}
