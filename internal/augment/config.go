package augment

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Config holds the constructor arguments of an augmentor, keyed by field
// name. Values are JSON-representable.
type Config map[string]any

// Kind is the value type of a schema field.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindIntPair    // [2]int, stored as []int
	KindFloatPair  // [2]float64, stored as []float64
	KindFloatList  // []float64 of any length
	KindAugmentor  // one serialized augmentor
	KindAugmentors // list of serialized augmentors
)

var kindNames = map[Kind]string{
	KindInt:        "int",
	KindFloat:      "float",
	KindBool:       "bool",
	KindString:     "string",
	KindIntPair:    "int[2]",
	KindFloatPair:  "float[2]",
	KindFloatList:  "float[]",
	KindAugmentor:  "augmentor",
	KindAugmentors: "augmentor[]",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field declares one constructor argument.
type Field struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"-"`
	Default  any    `json:"default,omitempty"`
	Required bool   `json:"required,omitempty"`
	Doc      string `json:"doc,omitempty"`
}

// MarshalJSON renders the kind by name.
func (f Field) MarshalJSON() ([]byte, error) {
	type alias Field
	return json.Marshal(struct {
		alias
		Type string `json:"type"`
	}{alias(f), f.Kind.String()})
}

// Schema lists the fields of an augmentor class. Config keys are exactly
// the field names.
type Schema []Field

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns a config holding every default value. Required fields
// are left out.
func (s Schema) Defaults() Config {
	cfg := Config{}
	for _, f := range s {
		if f.Required {
			continue
		}
		v, err := coerce(f.Kind, f.Default)
		if err == nil {
			cfg[f.Name] = v
		}
	}
	return cfg
}

// validate checks the schema itself: unique, non-empty names and defaults
// that match their kind.
func (s Schema) validate() error {
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if f.Name == "" {
			return fmt.Errorf("schema field with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate schema field %q", f.Name)
		}
		seen[f.Name] = true
		if f.Required {
			continue
		}
		if _, err := coerce(f.Kind, f.Default); err != nil {
			return fmt.Errorf("default for %q: %v", f.Name, err)
		}
	}
	return nil
}

// Normalize checks cfg against the schema and returns a copy with defaults
// filled in and every value converted to its canonical Go type.
func (s Schema) Normalize(cfg Config) (Config, error) {
	out := make(Config, len(s))

	var unknown []string
	for k := range cfg {
		if _, ok := s.Field(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unexpected keys %v", ErrConstruction, unknown)
	}

	for _, f := range s {
		raw, ok := cfg[f.Name]
		if !ok {
			if f.Required {
				return nil, fmt.Errorf("%w: missing required key %q", ErrConstruction, f.Name)
			}
			raw = f.Default
		}
		v, err := coerce(f.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrConstruction, f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

// Int returns an int field of a normalized config.
func (c Config) Int(key string) int {
	v, _ := c[key].(int)
	return v
}

// Float returns a float field of a normalized config.
func (c Config) Float(key string) float64 {
	v, _ := c[key].(float64)
	return v
}

// Bool returns a bool field of a normalized config.
func (c Config) Bool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

// String returns a string field of a normalized config.
func (c Config) String(key string) string {
	v, _ := c[key].(string)
	return v
}

// Ints returns an int list field of a normalized config.
func (c Config) Ints(key string) []int {
	v, _ := c[key].([]int)
	return v
}

// Floats returns a float list field of a normalized config.
func (c Config) Floats(key string) []float64 {
	v, _ := c[key].([]float64)
	return v
}

// Augmentor returns a serialized augmentor field of a normalized config.
func (c Config) Augmentor(key string) map[string]any {
	v, _ := c[key].(map[string]any)
	return v
}

// Augmentors returns a serialized augmentor list field of a normalized
// config.
func (c Config) Augmentors(key string) []map[string]any {
	raw, _ := c[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// coerce converts v to the canonical representation of kind k. Values
// decoded from JSON, YAML or TOML all pass through here.
func coerce(k Kind, v any) (any, error) {
	switch k {
	case KindInt:
		return toInt(v)
	case KindFloat:
		return toFloat(v)
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return b, nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		return s, nil
	case KindIntPair:
		items, err := toSlice(v)
		if err != nil {
			return nil, err
		}
		if len(items) != 2 {
			return nil, fmt.Errorf("want 2 values, got %d", len(items))
		}
		out := make([]int, 2)
		for i, item := range items {
			if out[i], err = toInt(item); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindFloatPair, KindFloatList:
		items, err := toSlice(v)
		if err != nil {
			return nil, err
		}
		if k == KindFloatPair && len(items) != 2 {
			return nil, fmt.Errorf("want 2 values, got %d", len(items))
		}
		out := make([]float64, len(items))
		for i, item := range items {
			if out[i], err = toFloat(item); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindAugmentor:
		return toSerialized(v)
	case KindAugmentors:
		items, err := toSlice(v)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			if out[i], err = toSerialized(item); err != nil {
				return nil, fmt.Errorf("item %d: %v", i, err)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown kind %v", k)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return toInt(float64(n))
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("want integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("want integer, got %s", n)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case bool, string, nil:
		return 0, fmt.Errorf("want number, got %T", v)
	}
	i, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("want number, got %T", v)
	}
	return float64(i), nil
}

func toSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []int:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	case []int64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	case []float64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	}
	return nil, fmt.Errorf("want list, got %T", v)
}

// toSerialized checks that v looks like a serialized augmentor and returns
// it as map[string]any with a Config-typed config. The class itself is
// resolved later by the registry.
func toSerialized(v any) (map[string]any, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("want serialized augmentor, got %T", v)
	}
	name, ok := m["class_name"].(string)
	if !ok {
		return nil, fmt.Errorf("serialized augmentor without class_name")
	}
	cfg, ok := asMap(m["config"])
	if !ok {
		return nil, fmt.Errorf("serialized augmentor %s without config", name)
	}
	return map[string]any{"class_name": name, "config": Config(cfg)}, nil
}

// asMap accepts the mapping types produced by this package and by the JSON,
// YAML and TOML decoders.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Config:
		return m, true
	case Serialized:
		return m.Map(), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
