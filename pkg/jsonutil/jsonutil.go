// Package jsonutil holds the small JSON helpers shared by the catalog,
// generation and artifact code. Documents are handled as raw bytes so that
// key order survives from the model response to disk.
package jsonutil

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Truthy reports whether a JSON value counts as present: null, false, 0, "",
// {} and [] do not.
func Truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	}
	if r.IsArray() {
		return len(r.Array()) > 0
	}
	if r.IsObject() {
		empty := true
		r.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	}
	return false
}

// Marshal encodes v without HTML escaping, so "&" in subtype names and other
// text stays readable on disk.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnescapeUnicode rewrites every string token of a valid document that
// contains a \u escape into its literal UTF-8 form. Other bytes, including
// key order and whitespace, are left untouched.
func UnescapeUnicode(raw []byte) []byte {
	if !bytes.Contains(raw, []byte(`\u`)) {
		return raw
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		if raw[i] != '"' {
			out = append(out, raw[i])
			i++
			continue
		}

		j := i + 1
		for j < len(raw) && raw[j] != '"' {
			if raw[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(raw) {
			return append(out, raw[i:]...)
		}

		tok := raw[i : j+1]
		if bytes.Contains(tok, []byte(`\u`)) {
			if enc, err := Marshal(gjson.ParseBytes(tok).Str); err == nil {
				tok = enc
			}
		}
		out = append(out, tok...)
		i = j + 1
	}
	return out
}
