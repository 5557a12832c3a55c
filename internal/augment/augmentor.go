package augment

import (
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/image-augment/internal/ndimage"
	"github.com/ironsheep/image-augment/internal/rng"
)

// Params is the randomized decision an augmentor computes for one input.
// Its concrete type is private to the augmentor that produced it; callers
// only pass it back unchanged.
type Params any

// Point is a 2-D coordinate in pixel space, X to the right and Y down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Augmentor is a single randomized transform with a two-phase apply.
type Augmentor interface {
	// Name returns the class name used in the serialized form.
	Name() string

	// AugmentParams draws the random decision needed to transform img.
	// It must not modify img.
	AugmentParams(img *ndimage.Array) (Params, error)

	// AugmentWithParams applies p to img. It may modify img in place;
	// callers must use the returned array.
	AugmentWithParams(img *ndimage.Array, p Params) (*ndimage.Array, error)

	// ResetState replaces the random generator with a fresh stream.
	ResetState()

	// Config returns the constructor arguments of this instance.
	Config() Config
}

// ImageAugmentor is an Augmentor that can also map point annotations.
type ImageAugmentor interface {
	Augmentor

	// AugmentCoords maps coords the same way AugmentWithParams moved pixels
	// for p.
	AugmentCoords(coords []Point, p Params) ([]Point, error)
}

// ParamsReturner is implemented by augmentors whose parameters can only be
// obtained by running the augmentation, such as List.
type ParamsReturner interface {
	AugmentReturnParams(img *ndimage.Array) (*ndimage.Array, Params, error)
}

// Base carries the per-instance random generator and the default halves of
// the protocol. Concrete augmentors embed it and call ResetState from their
// constructor.
type Base struct {
	rng *rand.Rand
}

// ResetState seeds a new generator derived from this instance.
func (b *Base) ResetState() {
	b.rng = rng.Get(b)
}

// Rng returns the instance generator, creating it on first use.
func (b *Base) Rng() *rand.Rand {
	if b.rng == nil {
		b.ResetState()
	}
	return b.rng
}

// AugmentParams returns no parameters, for deterministic transforms.
func (b *Base) AugmentParams(*ndimage.Array) (Params, error) {
	return nil, nil
}

// AugmentCoords returns coords unchanged, for transforms that do not move
// pixels.
func (b *Base) AugmentCoords(coords []Point, _ Params) ([]Point, error) {
	return coords, nil
}

// RandRange draws uniformly from [low, high).
func (b *Base) RandRange(low, high float64) float64 {
	return low + (high-low)*b.Rng().Float64()
}

// Rand draws uniformly from [0, high).
func (b *Base) Rand(high float64) float64 {
	return b.RandRange(0, high)
}

// RandRangeN draws n values uniformly from [low, high).
func (b *Base) RandRangeN(low, high float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = b.RandRange(low, high)
	}
	return out
}

// Augment computes parameters for img, applies them and discards them.
func Augment(a Augmentor, img *ndimage.Array) (*ndimage.Array, error) {
	out, _, err := AugmentReturnParams(a, img)
	return out, err
}

// AugmentReturnParams augments img and also returns the parameters used, so
// the same decision can be replayed or applied to coordinates.
func AugmentReturnParams(a Augmentor, img *ndimage.Array) (*ndimage.Array, Params, error) {
	if pr, ok := a.(ParamsReturner); ok {
		return pr.AugmentReturnParams(img)
	}

	p, err := a.AugmentParams(img)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	out, err := a.AugmentWithParams(img, p)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	return out, p, nil
}

// Describe renders a as its serialized form. Concrete augmentors return it
// from String.
func Describe(a Augmentor) string {
	return fmt.Sprint(Serialize(a))
}
