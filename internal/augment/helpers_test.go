package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/ndimage"
)

// addAug adds a random offset drawn from [low, high) to every pixel.
type addAug struct {
	Base
	low, high float64
}

func newAddAug(low, high float64) *addAug {
	a := &addAug{low: low, high: high}
	a.ResetState()
	return a
}

func (a *addAug) Name() string { return "AddAug" }

func (a *addAug) AugmentParams(*ndimage.Array) (Params, error) {
	return a.RandRange(a.low, a.high), nil
}

func (a *addAug) AugmentWithParams(img *ndimage.Array, p Params) (*ndimage.Array, error) {
	d, ok := p.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: want float64, got %T", ErrParamsMismatch, p)
	}
	return img.Apply(func(v float32) float32 { return v + float32(d) }), nil
}

func (a *addAug) Config() Config { return Config{"low": a.low, "high": a.high} }

func (a *addAug) String() string { return Describe(a) }

var addSpec = Spec{
	Name: "AddAug",
	Schema: Schema{
		{Name: "low", Kind: KindFloat, Default: 0.0},
		{Name: "high", Kind: KindFloat, Default: 10.0},
	},
	New: func(cfg Config) (Augmentor, error) {
		return newAddAug(cfg.Float("low"), cfg.Float("high")), nil
	},
}

// tintAug is an addAug that declares it never moves pixels.
type tintAug struct{ *addAug }

func (tintAug) PixelOnly() {}

// scaleAug multiplies pixel values and coordinates by a fixed factor.
type scaleAug struct {
	Base
	factor float64
}

func newScaleAug(factor float64) *scaleAug {
	a := &scaleAug{factor: factor}
	a.ResetState()
	return a
}

func (a *scaleAug) Name() string { return "ScaleAug" }

func (a *scaleAug) AugmentWithParams(img *ndimage.Array, _ Params) (*ndimage.Array, error) {
	return img.Apply(func(v float32) float32 { return v * float32(a.factor) }), nil
}

func (a *scaleAug) AugmentCoords(coords []Point, _ Params) ([]Point, error) {
	out := make([]Point, len(coords))
	for i, c := range coords {
		out[i] = Point{X: c.X * a.factor, Y: c.Y * a.factor}
	}
	return out, nil
}

func (a *scaleAug) Config() Config { return Config{"factor": a.factor} }

var scaleSpec = Spec{
	Name:   "ScaleAug",
	Schema: Schema{{Name: "factor", Kind: KindFloat, Required: true}},
	New: func(cfg Config) (Augmentor, error) {
		if cfg.Float("factor") == 0 {
			return nil, fmt.Errorf("factor must be non-zero")
		}
		return newScaleAug(cfg.Float("factor")), nil
	},
}

// shiftAug moves coordinates by a random offset but cannot say how pixels
// moved; it is the model of a spatial augmentor without a coordinate map.
type shiftAug struct {
	Base
}

func (a *shiftAug) Name() string { return "ShiftAug" }

func (a *shiftAug) AugmentParams(*ndimage.Array) (Params, error) {
	return a.Rng().IntN(3), nil
}

func (a *shiftAug) AugmentWithParams(img *ndimage.Array, _ Params) (*ndimage.Array, error) {
	return img, nil
}

func (a *shiftAug) AugmentCoords([]Point, Params) ([]Point, error) {
	return nil, ErrCoordsNotImplemented
}

func (a *shiftAug) Config() Config { return Config{} }

// spyAug records how often each phase ran.
type spyAug struct {
	Base
	paramCalls int
	applyCalls int
	resets     int
}

func (s *spyAug) Name() string { return "SpyAug" }

func (s *spyAug) AugmentParams(*ndimage.Array) (Params, error) {
	s.paramCalls++
	return s.paramCalls, nil
}

func (s *spyAug) AugmentWithParams(img *ndimage.Array, _ Params) (*ndimage.Array, error) {
	s.applyCalls++
	return img, nil
}

func (s *spyAug) ResetState() {
	s.resets++
	s.Base.ResetState()
}

func (s *spyAug) Config() Config { return Config{} }

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(addSpec, scaleSpec, ListSpec(r))
	return r
}

func grayImage(h, w int, v float32) *ndimage.Array {
	return ndimage.Filled(v, h, w)
}
