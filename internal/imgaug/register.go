package imgaug

import (
	"sync"

	"github.com/ironsheep/image-augment/internal/augment"
)

// Register adds every augmentor in this package, plus the list, to r.
func Register(r *augment.Registry) error {
	specs := []augment.Spec{augment.ListSpec(r), rotationSpec, shuffleSpec}
	specs = append(specs, geometrySpecs...)
	specs = append(specs, cropSpecs...)
	specs = append(specs, photometricSpecs...)
	specs = append(specs, noiseSpecs...)
	specs = append(specs, normalizeSpecs...)
	specs = append(specs, metaSpecs(r)...)

	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *augment.Registry
)

// DefaultRegistry returns a shared registry holding every built-in
// augmentor.
func DefaultRegistry() *augment.Registry {
	defaultOnce.Do(func() {
		r := augment.NewRegistry()
		if err := Register(r); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
