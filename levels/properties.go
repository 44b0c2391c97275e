package levels

import (
	"encoding/json"
	"fmt"
)

// Properties holds Tiled custom properties keyed by name. Tiled writes them
// as an array of {name, type, value} objects.
type Properties map[string]any

type property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	var list []property
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	out := make(Properties, len(list))
	for _, prop := range list {
		out[prop.Name] = prop.Value
	}
	*p = out
	return nil
}

func (p Properties) MarshalJSON() ([]byte, error) {
	list := make([]property, 0, len(p))
	for name, v := range p {
		typ := "string"
		switch v.(type) {
		case bool:
			typ = "bool"
		case float64, int:
			typ = "float"
		}
		list = append(list, property{Name: name, Type: typ, Value: v})
	}
	return json.Marshal(list)
}

// Bool reports a boolean property, false when absent or not a bool.
func (p Properties) Bool(name string) bool {
	v, ok := p[name].(bool)
	return ok && v
}

func (p Properties) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func (p Properties) Text(name string) string {
	s, _ := p[name].(string)
	return s
}

// Equal reports whether two property sets hold the same scalar values.
func (p Properties) Equal(o Properties) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		ov, ok := o[k]
		if !ok || !scalarEqual(v, ov) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}
