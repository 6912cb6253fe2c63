// Package part defines the five generation parts of a city and the local
// post-processing applied to each model response.
package part

import "fmt"

// Kind is one of the fixed generation parts. The zero value is invalid.
type Kind int

const (
	Description Kind = iota + 1
	Children
	Instagram
	PlacesOfPower
	NewAttractions
)

// Shape is the top-level JSON shape a part's prompt asks for.
type Shape int

const (
	// ShapeObject is a single JSON object.
	ShapeObject Shape = iota
	// ShapeMap is an object of subtype -> list of items.
	ShapeMap
	// ShapeList is a list of items.
	ShapeList
)

type kindInfo struct {
	name     string // failure log name
	slug     string
	template string
	shape    Shape
	metaType string
	subtypes []string
}

var kinds = map[Kind]kindInfo{
	Description: {
		name:     "Part1_Description",
		slug:     "description",
		template: "part1_description.tmpl",
		shape:    ShapeObject,
	},
	Children: {
		name:     "Part2_Children",
		slug:     "children",
		template: "part2_children.tmpl",
		shape:    ShapeMap,
		metaType: "ChildrenAttractions",
		subtypes: ChildrenSubtypes,
	},
	Instagram: {
		name:     "Part3_Instagram",
		slug:     "instagram",
		template: "part3_instagram.tmpl",
		shape:    ShapeMap,
		metaType: "InstagramAttractions",
		subtypes: InstagramSubtypes,
	},
	PlacesOfPower: {
		name:     "Part4_PlacesOfPower",
		slug:     "places_of_power",
		template: "part4_places_of_power.tmpl",
		shape:    ShapeMap,
		metaType: "PlacesOfPower",
		subtypes: PlacesOfPowerSubtypes,
	},
	NewAttractions: {
		name:     "Part5_NewAttractions",
		slug:     "new_attractions",
		template: "part5_new_attractions.tmpl",
		shape:    ShapeList,
		metaType: "NewAttractions",
	},
}

// Kinds returns all parts in run order.
func Kinds() []Kind {
	return []Kind{Description, Children, Instagram, PlacesOfPower, NewAttractions}
}

func (k Kind) info() kindInfo {
	s, ok := kinds[k]
	if !ok {
		panic(fmt.Sprintf("part: invalid kind %d", int(k)))
	}
	return s
}

// Valid reports whether k is one of the five parts.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// String returns the name used in the failure log, e.g. "Part2_Children".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return k.info().name
}

// Number is the 1-based position of the part in a run.
func (k Kind) Number() int { return int(k) }

// Slug is the file name suffix of the part's artifact.
func (k Kind) Slug() string { return k.info().slug }

// Template is the prompt template name.
func (k Kind) Template() string { return k.info().template }

// Shape is the JSON shape the prompt asks for.
func (k Kind) Shape() Shape { return k.info().shape }

// MetaType is the "meta.type" label of item artifacts; empty for Description.
func (k Kind) MetaType() string { return k.info().metaType }

// Subtypes returns the candidate subtypes of a map-shaped part, nil otherwise.
func (k Kind) Subtypes() []string { return k.info().subtypes }

// ParseKind maps a failure log name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown part %q", name)
}
