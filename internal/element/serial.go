package element

import (
	"encoding/json"
	"fmt"
)

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Points":
		*k = KindPoints
	case "Path":
		*k = KindPath
	case "Polygons":
		*k = KindPolygons
	case "Rectangles":
		*k = KindRectangles
	case "Segments":
		*k = KindSegments
	default:
		return fmt.Errorf("unknown element kind %q", text)
	}
	return nil
}

// MarshalText encodes the scope as "object" or "vertex".
func (s Scope) MarshalText() ([]byte, error) {
	if s == ScopeVertex {
		return []byte("vertex"), nil
	}
	return []byte("object"), nil
}

// UnmarshalText decodes a scope.
func (s *Scope) UnmarshalText(text []byte) error {
	switch string(text) {
	case "object":
		*s = ScopeObject
	case "vertex":
		*s = ScopeVertex
	default:
		return fmt.Errorf("unknown dimension scope %q", text)
	}
	return nil
}

// elementJSON is the serialized form of an element.
type elementJSON struct {
	Kind       Kind        `json:"kind"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Objects    []*Object   `json:"objects"`
	Style      Style       `json:"style,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{
		Kind:       e.kind,
		Dimensions: e.vdims,
		Objects:    e.objects,
		Style:      e.style,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.kind = raw.Kind
	e.vdims = raw.Dimensions
	e.objects = raw.Objects
	e.style = raw.Style
	if e.style == nil {
		e.style = Style{}
	}
	return nil
}
