package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectDescriptorKeepsMetadata(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
	}{
		{
			name:     "unknown members",
			input:    `{"name":"cars","hidden":false,"metadata":{"type":"data.frame","len":3,"size":"1 KB","preview":"[1,2]"}}`,
			wantType: "data.frame",
		},
		{
			name:     "len that is not a number",
			input:    `{"name":"conn","hidden":false,"metadata":{"type":"environment","len":"unknown"}}`,
			wantType: "environment",
		},
		{
			name:     "type that is not a string",
			input:    `{"name":"odd","hidden":false,"metadata":{"type":["S4","lm"],"extra":null}}`,
			wantType: "",
		},
		{
			name:     "metadata that is not an object",
			input:    `{"name":"x","hidden":true,"metadata":"opaque"}`,
			wantType: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d ObjectDescriptor
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.Equal(t, tt.wantType, d.Metadata.Type())

			out, err := json.Marshal(&d)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestObjectDescriptorWithoutMetadata(t *testing.T) {
	var d ObjectDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &d))
	assert.Empty(t, d.Metadata)
	assert.Equal(t, "", d.Metadata.Type())

	out, err := json.Marshal(&d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","hidden":false}`, string(out))
}

func TestObjectMetadataDoesNotAliasInput(t *testing.T) {
	data := []byte(`{"name":"x","metadata":{"type":"numeric"}}`)
	var d ObjectDescriptor
	require.NoError(t, json.Unmarshal(data, &d))
	for i := range data {
		data[i] = ' '
	}
	assert.Equal(t, "numeric", d.Metadata.Type())
}
