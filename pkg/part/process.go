package part

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"citygen/pkg/catalog"
	"citygen/pkg/jsonutil"
)

// DedupKey is the item field deduplication runs on.
const DedupKey = "name"

// ErrUnexpectedShape is returned when a Description or subtype-map response
// is not an object.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Meta heads every item artifact.
type Meta struct {
	Type   string `json:"type"`
	City   string `json:"city"`
	CityID string `json:"city_id"`
}

// ItemsDocument is the on-disk form of the Children, Instagram,
// PlacesOfPower and NewAttractions artifacts.
type ItemsDocument struct {
	Meta  Meta              `json:"meta"`
	Items []json.RawMessage `json:"items"`
}

// Process turns a non-empty model response into the artifact bytes for k.
func Process(k Kind, raw []byte, rec catalog.Record) ([]byte, error) {
	var items []json.RawMessage
	switch k.Shape() {
	case ShapeObject:
		return WithCoordinates(raw, rec.Latitude, rec.Longitude)
	case ShapeMap:
		if !gjson.ParseBytes(raw).IsObject() {
			return nil, ErrUnexpectedShape
		}
		items = Flatten(raw)
	case ShapeList:
		items = List(raw)
	default:
		return nil, fmt.Errorf("%s: unknown shape %d", k, k.Shape())
	}

	items = Dedup(items, DedupKey)
	if items == nil {
		items = []json.RawMessage{}
	}
	return jsonutil.Marshal(ItemsDocument{
		Meta: Meta{
			Type:   k.MetaType(),
			City:   rec.Name,
			CityID: rec.ID,
		},
		Items: items,
	})
}

// WithCoordinates sets "coordinates": [lat, lon] on a JSON object, replacing
// whatever the model put there.
func WithCoordinates(raw []byte, lat, lon float64) ([]byte, error) {
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrUnexpectedShape
	}
	return sjson.SetBytes(raw, "coordinates", []float64{lat, lon})
}

// Flatten turns a subtype -> items object into one sequence, tagging every
// item with its subtype. Subtypes keep their document order. Values that are
// not lists and items that are not objects are dropped; a payload that is not
// an object flattens to nothing.
func Flatten(raw []byte) []json.RawMessage {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil
	}

	var items []json.RawMessage
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		label, err := jsonutil.Marshal(key.String())
		if err != nil {
			return true
		}
		value.ForEach(func(_, item gjson.Result) bool {
			if !item.IsObject() {
				return true
			}
			tagged, err := sjson.SetRawBytes([]byte(item.Raw), "subtype", label)
			if err == nil {
				items = append(items, tagged)
			}
			return true
		})
		return true
	})
	return items
}

// List returns the object items of a JSON array. Anything else yields an
// empty sequence.
func List(raw []byte) []json.RawMessage {
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil
	}

	var items []json.RawMessage
	root.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			items = append(items, json.RawMessage(item.Raw))
		}
		return true
	})
	return items
}

// Dedup keeps the first item for every distinct value at key, preserving
// order. Items whose value is missing or empty are dropped.
func Dedup(items []json.RawMessage, key string) []json.RawMessage {
	seen := make(map[string]bool, len(items))
	var out []json.RawMessage
	for _, item := range items {
		v := gjson.GetBytes(item, key)
		if !jsonutil.Truthy(v) {
			continue
		}
		id := v.Raw
		if v.Type == gjson.String {
			id = "s:" + v.Str
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}
