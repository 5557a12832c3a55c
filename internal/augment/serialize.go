package augment

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serialized is the typed form of {"class_name": ..., "config": ...} used
// when reading and writing pipeline files.
type Serialized struct {
	ClassName string `json:"class_name" yaml:"class_name" toml:"class_name"`
	Config    Config `json:"config" yaml:"config" toml:"config"`
}

// Map returns the untyped two-key form.
func (s Serialized) Map() map[string]any {
	cfg := s.Config
	if cfg == nil {
		cfg = Config{}
	}
	return map[string]any{"class_name": s.ClassName, "config": cfg}
}

// Serialize describes a as {"class_name": a.Name(), "config": a.Config()}.
func Serialize(a Augmentor) map[string]any {
	return map[string]any{
		"class_name": a.Name(),
		"config":     a.Config(),
	}
}

// ToSerialized is Serialize in typed form.
func ToSerialized(a Augmentor) Serialized {
	return Serialized{ClassName: a.Name(), Config: a.Config()}
}

// Deserialize builds an augmentor from its serialized form.
//
// The steps mirror Serialize in reverse:
//  1. v must be a mapping with "class_name" and "config" (ErrFormat)
//  2. the class must be registered (ErrUnknownClass)
//  3. the entry must be able to build augmentors (ErrNotAugmentor)
//  4. the config must match the class schema (ErrConstruction)
func (r *Registry) Deserialize(v any) (Augmentor, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: want {class_name: string, config: mapping}, got %T", ErrFormat, v)
	}
	rawName, hasName := m["class_name"]
	rawCfg, hasCfg := m["config"]
	if !hasName || !hasCfg {
		return nil, fmt.Errorf("%w: %v", ErrFormat, m)
	}
	name, ok := rawName.(string)
	if !ok {
		return nil, fmt.Errorf("%w: class_name must be a string, got %T", ErrFormat, rawName)
	}
	cfg, ok := asMap(rawCfg)
	if !ok {
		return nil, fmt.Errorf("%w: config of %s must be a mapping, got %T", ErrFormat, name, rawCfg)
	}

	spec, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}
	if spec.New == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAugmentor, name)
	}

	lg().Debug("deserializing augmentor", "class", name)
	return FromConfig(spec, cfg)
}

// DeserializeJSON decodes a JSON serialized form and builds the augmentor.
func (r *Registry) DeserializeJSON(data []byte) (Augmentor, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return r.Deserialize(v)
}

// DeserializeYAML decodes a YAML serialized form and builds the augmentor.
func (r *Registry) DeserializeYAML(data []byte) (Augmentor, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return r.Deserialize(v)
}

// DeserializeImage is Deserialize for callers that need coordinate mapping.
func (r *Registry) DeserializeImage(v any) (ImageAugmentor, error) {
	a, err := r.Deserialize(v)
	if err != nil {
		return nil, err
	}
	ia, ok := a.(ImageAugmentor)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not map coordinates", ErrNotAugmentor, a.Name())
	}
	return ia, nil
}
