package imgaug

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// Brightness adds a random offset in [-delta, delta] to every pixel.
type Brightness struct {
	augment.Base
	pixelOnly
	delta float64
	clip  bool
}

// NewBrightness creates a Brightness. With clip set, results are limited to
// [0, 255].
func NewBrightness(delta float64, clip bool) (*Brightness, error) {
	if delta < 0 {
		return nil, fmt.Errorf("delta must be non-negative, got %v", delta)
	}
	b := &Brightness{delta: delta, clip: clip}
	b.ResetState()
	return b, nil
}

func (b *Brightness) Name() string { return "Brightness" }

func (b *Brightness) AugmentParams(*ndimage.Array) (augment.Params, error) {
	return b.RandRange(-b.delta, b.delta), nil
}

func (b *Brightness) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	d, err := paramsAs[float64](b.Name(), p)
	if err != nil {
		return nil, err
	}
	out := img.Clone().Apply(func(v float32) float32 { return v + float32(d) })
	if b.clip {
		out.Clamp(0, 255)
	}
	return out, nil
}

func (b *Brightness) Config() augment.Config {
	return augment.Config{"delta": b.delta, "clip": b.clip}
}

func (b *Brightness) String() string { return augment.Describe(b) }

// BrightnessScale multiplies brightness by a random factor drawn from
// factor_range.
type BrightnessScale struct {
	augment.Base
	pixelOnly
	lo, hi float64
}

// NewBrightnessScale creates a BrightnessScale. Factors must lie in [0, 2].
func NewBrightnessScale(lo, hi float64) (*BrightnessScale, error) {
	if lo > hi || lo < 0 || hi > 2 {
		return nil, fmt.Errorf("factor range must satisfy 0 <= lo <= hi <= 2, got [%v, %v]", lo, hi)
	}
	b := &BrightnessScale{lo: lo, hi: hi}
	b.ResetState()
	return b, nil
}

func (b *BrightnessScale) Name() string { return "BrightnessScale" }

func (b *BrightnessScale) AugmentParams(*ndimage.Array) (augment.Params, error) {
	return b.RandRange(b.lo, b.hi), nil
}

func (b *BrightnessScale) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	f, err := paramsAs[float64](b.Name(), p)
	if err != nil {
		return nil, err
	}
	return viaImage(img, func(src image.Image) image.Image {
		return adjust.Brightness(src, f-1)
	})
}

func (b *BrightnessScale) Config() augment.Config {
	return augment.Config{"factor_range": []float64{b.lo, b.hi}}
}

func (b *BrightnessScale) String() string { return augment.Describe(b) }

// Contrast stretches or compresses pixel values around mid-gray by a random
// factor from factor_range.
type Contrast struct {
	augment.Base
	pixelOnly
	lo, hi float64
}

// NewContrast creates a Contrast. Factors must lie in [0, 2]; 1 leaves the
// image unchanged.
func NewContrast(lo, hi float64) (*Contrast, error) {
	if lo > hi || lo < 0 || hi > 2 {
		return nil, fmt.Errorf("factor range must satisfy 0 <= lo <= hi <= 2, got [%v, %v]", lo, hi)
	}
	c := &Contrast{lo: lo, hi: hi}
	c.ResetState()
	return c, nil
}

func (c *Contrast) Name() string { return "Contrast" }

func (c *Contrast) AugmentParams(*ndimage.Array) (augment.Params, error) {
	return c.RandRange(c.lo, c.hi), nil
}

func (c *Contrast) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	f, err := paramsAs[float64](c.Name(), p)
	if err != nil {
		return nil, err
	}
	return viaImage(img, func(src image.Image) image.Image {
		return adjust.Contrast(src, f-1)
	})
}

func (c *Contrast) Config() augment.Config {
	return augment.Config{"factor_range": []float64{c.lo, c.hi}}
}

func (c *Contrast) String() string { return augment.Describe(c) }

// mapHSV rewrites every RGB pixel of img through f in HSV space. Alpha is
// left untouched.
func mapHSV(img *ndimage.Array, f func(h, s, v float64) (float64, float64, float64)) *ndimage.Array {
	out := img.Clone()
	ch := img.Channels()
	for i := 0; i+2 < len(out.Pix); i += ch {
		px := out.Pix[i : i+3]
		c := colorful.Color{R: float64(px[0]) / 255, G: float64(px[1]) / 255, B: float64(px[2]) / 255}
		h, s, v := f(c.Hsv())
		c = colorful.Hsv(h, s, v)
		px[0], px[1], px[2] = float32(c.R*255), float32(c.G*255), float32(c.B*255)
	}
	return out
}

// Saturation scales HSV saturation by a random factor in
// [1-alpha, 1+alpha].
type Saturation struct {
	augment.Base
	pixelOnly
	alpha float64
}

// NewSaturation creates a Saturation.
func NewSaturation(alpha float64) (*Saturation, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha must be in [0, 1], got %v", alpha)
	}
	s := &Saturation{alpha: alpha}
	s.ResetState()
	return s, nil
}

func (s *Saturation) Name() string { return "Saturation" }

func (s *Saturation) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireColor(s.Name(), img); err != nil {
		return nil, err
	}
	return 1 + s.RandRange(-s.alpha, s.alpha), nil
}

func (s *Saturation) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	f, err := paramsAs[float64](s.Name(), p)
	if err != nil {
		return nil, err
	}
	if err := requireColor(s.Name(), img); err != nil {
		return nil, err
	}
	return mapHSV(img, func(h, sat, v float64) (float64, float64, float64) {
		return h, math.Min(1, sat*f), v
	}), nil
}

func (s *Saturation) Config() augment.Config { return augment.Config{"alpha": s.alpha} }

func (s *Saturation) String() string { return augment.Describe(s) }

// HueJitter rotates the hue by a random number of degrees from range.
type HueJitter struct {
	augment.Base
	pixelOnly
	lo, hi float64
}

// NewHueJitter creates a HueJitter shifting hue by [lo, hi] degrees.
func NewHueJitter(lo, hi float64) (*HueJitter, error) {
	if lo > hi {
		return nil, fmt.Errorf("hue range [%v, %v] is empty", lo, hi)
	}
	j := &HueJitter{lo: lo, hi: hi}
	j.ResetState()
	return j, nil
}

func (j *HueJitter) Name() string { return "HueJitter" }

func (j *HueJitter) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireColor(j.Name(), img); err != nil {
		return nil, err
	}
	return j.RandRange(j.lo, j.hi), nil
}

func (j *HueJitter) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	shift, err := paramsAs[float64](j.Name(), p)
	if err != nil {
		return nil, err
	}
	if err := requireColor(j.Name(), img); err != nil {
		return nil, err
	}
	return mapHSV(img, func(h, s, v float64) (float64, float64, float64) {
		h = math.Mod(h+shift, 360)
		if h < 0 {
			h += 360
		}
		return h, s, v
	}), nil
}

func (j *HueJitter) Config() augment.Config {
	return augment.Config{"range": []float64{j.lo, j.hi}}
}

func (j *HueJitter) String() string { return augment.Describe(j) }

// Grayscale converts to luminance. With keep_shape set, the result keeps the
// input's channel count with every color channel equal.
type Grayscale struct {
	augment.Base
	pixelOnly
	keepShape bool
}

// NewGrayscale creates a Grayscale.
func NewGrayscale(keepShape bool) *Grayscale {
	g := &Grayscale{keepShape: keepShape}
	g.ResetState()
	return g
}

func (g *Grayscale) Name() string { return "Grayscale" }

func (g *Grayscale) AugmentWithParams(img *ndimage.Array, _ augment.Params) (*ndimage.Array, error) {
	if err := requireImage(g.Name(), img); err != nil {
		return nil, err
	}
	src, err := img.ToImage()
	if err != nil {
		return nil, err
	}
	if !g.keepShape {
		return ndimage.FromGray(src), nil
	}
	return ndimage.FromImageLike(imaging.Grayscale(src), img), nil
}

func (g *Grayscale) Config() augment.Config { return augment.Config{"keep_shape": g.keepShape} }

func (g *Grayscale) String() string { return augment.Describe(g) }

// GaussianBlur blurs with a Gaussian of random radius in [0, max_size).
type GaussianBlur struct {
	augment.Base
	pixelOnly
	maxSize float64
}

// NewGaussianBlur creates a GaussianBlur.
func NewGaussianBlur(maxSize float64) (*GaussianBlur, error) {
	if maxSize < 0 {
		return nil, fmt.Errorf("max_size must be non-negative, got %v", maxSize)
	}
	b := &GaussianBlur{maxSize: maxSize}
	b.ResetState()
	return b, nil
}

func (b *GaussianBlur) Name() string { return "GaussianBlur" }

func (b *GaussianBlur) AugmentParams(*ndimage.Array) (augment.Params, error) {
	return b.Rand(b.maxSize), nil
}

func (b *GaussianBlur) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	radius, err := paramsAs[float64](b.Name(), p)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return img, nil
	}
	return viaImage(img, func(src image.Image) image.Image {
		return blur.Gaussian(src, radius)
	})
}

func (b *GaussianBlur) Config() augment.Config { return augment.Config{"max_size": b.maxSize} }

func (b *GaussianBlur) String() string { return augment.Describe(b) }

var photometricSpecs = []augment.Spec{
	{
		Name: "Brightness",
		Doc:  "Add a random offset in [-delta, delta].",
		Schema: augment.Schema{
			{Name: "delta", Kind: augment.KindFloat, Default: 32.0},
			{Name: "clip", Kind: augment.KindBool, Default: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewBrightness(cfg.Float("delta"), cfg.Bool("clip"))
		},
	},
	{
		Name: "BrightnessScale",
		Doc:  "Scale brightness by a random factor from factor_range.",
		Schema: augment.Schema{
			{Name: "factor_range", Kind: augment.KindFloatPair, Default: []float64{0.8, 1.2}},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			r := cfg.Floats("factor_range")
			return NewBrightnessScale(r[0], r[1])
		},
	},
	{
		Name: "Contrast",
		Doc:  "Scale contrast by a random factor from factor_range.",
		Schema: augment.Schema{
			{Name: "factor_range", Kind: augment.KindFloatPair, Default: []float64{0.8, 1.2}},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			r := cfg.Floats("factor_range")
			return NewContrast(r[0], r[1])
		},
	},
	{
		Name: "Saturation",
		Doc:  "Scale HSV saturation by a factor in [1-alpha, 1+alpha].",
		Schema: augment.Schema{
			{Name: "alpha", Kind: augment.KindFloat, Default: 0.4},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewSaturation(cfg.Float("alpha"))
		},
	},
	{
		Name: "HueJitter",
		Doc:  "Rotate hue by a random number of degrees from range.",
		Schema: augment.Schema{
			{Name: "range", Kind: augment.KindFloatPair, Default: []float64{-18, 18}},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			r := cfg.Floats("range")
			return NewHueJitter(r[0], r[1])
		},
	},
	{
		Name: "Grayscale",
		Doc:  "Convert to luminance.",
		Schema: augment.Schema{
			{Name: "keep_shape", Kind: augment.KindBool, Default: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewGrayscale(cfg.Bool("keep_shape")), nil
		},
	},
	{
		Name: "GaussianBlur",
		Doc:  "Gaussian blur with a random radius below max_size.",
		Schema: augment.Schema{
			{Name: "max_size", Kind: augment.KindFloat, Default: 3.0},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewGaussianBlur(cfg.Float("max_size"))
		},
	},
}
