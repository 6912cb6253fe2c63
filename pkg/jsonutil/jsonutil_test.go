package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		doc  string
		want bool
	}{
		{`null`, false},
		{`false`, false},
		{`true`, true},
		{`0`, false},
		{`0.0`, false},
		{`12`, true},
		{`""`, false},
		{`"x"`, true},
		{`{}`, false},
		{`{"a":1}`, true},
		{`[]`, false},
		{`[0]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(gjson.Parse(tt.doc)))
		})
	}
}

func TestTruthy_Missing(t *testing.T) {
	assert.False(t, Truthy(gjson.Get(`{"a":1}`, "b")))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	out, err := Marshal(map[string]string{"subtype": "Zoos & Petting Zoos", "city": "Zürich"})
	require.NoError(t, err)
	assert.Equal(t, `{"city":"Zürich","subtype":"Zoos & Petting Zoos"}`, string(out))
}

func TestUnescapeUnicode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"No escapes", `{"a":"Zürich"}`, `{"a":"Zürich"}`},
		{"Latin", `{"name":"Caf\u00e9 M\u00fcller"}`, `{"name":"Café Müller"}`},
		{"Keys too", `{"Caf\u00e9":1}`, `{"Café":1}`},
		{"Surrogate pair", `["\ud83c\udf0d"]`, `["🌍"]`},
		{"Other escapes kept", `{"q":"\"Caf\u00e9\"\n"}`, `{"q":"\"Café\"\n"}`},
		{"Untouched neighbours", `{"a":"x\\y", "b":"\u0026"}`, `{"a":"x\\y", "b":"&"}`},
		{"Escaped backslash before u", `{"p":"C:\\users"}`, `{"p":"C:\\users"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnescapeUnicode([]byte(tt.in))
			assert.Equal(t, tt.want, string(got))
			assert.True(t, gjson.ValidBytes(got))
		})
	}
}
