package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/rng"
)

// Format is a pipeline file encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// ErrUnknownFormat is returned for file extensions with no known encoding.
var ErrUnknownFormat = errors.New("unknown pipeline format")

// FormatFor picks the encoding from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Error records the pipeline operation and file that failed.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// file is the on-disk layout shared by every format.
type file struct {
	Seed       *uint64          `yaml:"seed,omitempty" toml:"seed,omitempty" json:"seed,omitempty"`
	Augmentors []map[string]any `yaml:"augmentors" toml:"augmentors" json:"augmentors"`
}

// Pipeline is a list of augmentors with an optional fixed seed.
type Pipeline struct {
	Seed *uint64
	List *augment.List
}

// New wraps augs into a pipeline without a fixed seed.
func New(augs ...augment.ImageAugmentor) *Pipeline {
	return &Pipeline{List: augment.NewList(augs...)}
}

// Load reads the pipeline file at path and builds its augmentors through r.
func Load(path string, r *augment.Registry) (*Pipeline, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, &Error{Op: "pipeline.load", Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "pipeline.load", Path: path, Err: err}
	}
	p, err := Decode(data, format, r)
	if err != nil {
		return nil, &Error{Op: "pipeline.load", Path: path, Err: err}
	}
	return p, nil
}

// Decode parses data in the given format and builds its augmentors through
// r. A seed in the data is fixed with rng.Fix before any augmentor is built
// and stays fixed once Decode succeeds. On failure the previous seeding is
// restored.
func Decode(data []byte, format Format, r *augment.Registry) (p *Pipeline, err error) {
	var f file
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &f)
	case TOML:
		err = toml.Unmarshal(data, &f)
	case JSON:
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", augment.ErrFormat, err)
	}

	if f.Seed != nil {
		prev, wasFixed := rng.Fixed()
		rng.Fix(*f.Seed)
		defer func() {
			if p != nil {
				return
			}
			if wasFixed {
				rng.Fix(prev)
			} else {
				rng.Unfix()
			}
		}()
	}
	augs, err := augment.DeserializeAll(r, f.Augmentors)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Seed: f.Seed, List: augment.NewList(augs...)}, nil
}

// Encode renders p in the given format.
func Encode(p *Pipeline, format Format) ([]byte, error) {
	f := file{Seed: p.Seed, Augmentors: make([]map[string]any, 0, p.List.Len())}
	for _, a := range p.List.Augmentors() {
		f.Augmentors = append(f.Augmentors, augment.Serialize(a))
	}

	switch format {
	case YAML:
		return yaml.Marshal(&f)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(&f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case JSON:
		return json.MarshalIndent(&f, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save writes p to path in the format implied by its extension.
func Save(path string, p *Pipeline) error {
	format, err := FormatFor(path)
	if err != nil {
		return &Error{Op: "pipeline.save", Path: path, Err: err}
	}
	data, err := Encode(p, format)
	if err != nil {
		return &Error{Op: "pipeline.save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Op: "pipeline.save", Path: path, Err: err}
	}
	return nil
}

// String renders the pipeline as its serialized list.
func (p *Pipeline) String() string {
	s := p.List.String()
	if p.Seed != nil {
		s = fmt.Sprintf("seed=%d %s", *p.Seed, s)
	}
	return s
}
