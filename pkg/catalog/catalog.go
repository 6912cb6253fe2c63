// Package catalog loads the input city document and selects the records of a
// generation run.
package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"citygen/pkg/jsonutil"
)

// Placeholders used when a record carries none of the alternate keys.
const (
	UnknownName    = "Unknown"
	UnknownCountry = "Unknown Country"
)

// Alternate key names, tried in order.
var (
	nameKeys      = []string{"Name", "name", "city"}
	countryKeys   = []string{"country_name", "country"}
	latitudeKeys  = []string{"latitude", "lat"}
	longitudeKeys = []string{"longitude", "lon"}
)

// Record is one city of the catalog.
type Record struct {
	ID        string
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}

type entry struct {
	id  string
	raw gjson.Result
}

// Catalog is the normalized input document: identifier -> raw attributes, in
// source order.
type Catalog struct {
	entries []entry
	index   map[string]int
}

// Load reads and normalizes the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse normalizes a catalog document. Both array and object roots are
// accepted. Array elements are keyed by their "id" field, falling back to the
// 1-based position. A repeated identifier keeps its first position and takes
// the last value.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON document")
	}

	c := &Catalog{index: make(map[string]int)}
	root := gjson.ParseBytes(data)

	switch {
	case root.IsArray():
		pos := 0
		root.ForEach(func(_, v gjson.Result) bool {
			pos++
			id := identifier(v.Get("id"))
			if id == "" {
				id = strconv.Itoa(pos)
			}
			c.put(id, v)
			return true
		})
	case root.IsObject():
		root.ForEach(func(k, v gjson.Result) bool {
			c.put(k.String(), v)
			return true
		})
	default:
		return nil, fmt.Errorf("document root must be an array or an object, got %s", root.Type)
	}
	return c, nil
}

func (c *Catalog) put(id string, raw gjson.Result) {
	if i, ok := c.index[id]; ok {
		c.entries[i].raw = raw
		return
	}
	c.index[id] = len(c.entries)
	c.entries = append(c.entries, entry{id: id, raw: raw})
}

// Len returns the number of distinct identifiers.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// IDs returns all identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.id
	}
	return ids
}

// Select returns the records whose identifier lies in r, in catalog order.
// Attributes are resolved only for selected records; a selected record with
// unusable attributes is an error.
func (c *Catalog) Select(r Range) ([]Record, error) {
	var out []Record
	for _, e := range c.entries {
		if !r.Contains(e.id) {
			continue
		}
		rec, err := resolve(e.id, e.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func resolve(id string, raw gjson.Result) (Record, error) {
	if !raw.IsObject() {
		return Record{}, fmt.Errorf("record %s: expected an object, got %s", id, raw.Type)
	}

	lat, err := coordinate(raw, latitudeKeys)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", id, err)
	}
	lon, err := coordinate(raw, longitudeKeys)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", id, err)
	}

	return Record{
		ID:        id,
		Name:      firstString(raw, nameKeys, UnknownName),
		Country:   firstString(raw, countryKeys, UnknownCountry),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// identifier renders an "id" field the way it reads in the document:
// strings unquoted, numbers by their literal text. Falsy values yield "".
func identifier(v gjson.Result) string {
	if !jsonutil.Truthy(v) {
		return ""
	}
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

func firstString(raw gjson.Result, keys []string, fallback string) string {
	for _, k := range keys {
		if v := raw.Get(k); jsonutil.Truthy(v) {
			return v.String()
		}
	}
	return fallback
}

func coordinate(raw gjson.Result, keys []string) (float64, error) {
	for _, k := range keys {
		v := raw.Get(k)
		if !jsonutil.Truthy(v) {
			continue
		}
		switch v.Type {
		case gjson.Number:
			return v.Num, nil
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return 0, fmt.Errorf("field %q: %q is not a number", k, v.Str)
			}
			return f, nil
		default:
			return 0, fmt.Errorf("field %q: unsupported value %s", k, v.Raw)
		}
	}
	return 0, nil
}
