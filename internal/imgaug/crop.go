package imgaug

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// cropParams is the top-left corner and size of a crop window.
type cropParams struct {
	x0, y0 int
	h, w   int
}

func (p cropParams) apply(img *ndimage.Array) (*ndimage.Array, error) {
	return viaImage(img, func(src image.Image) image.Image {
		return imaging.Crop(src, image.Rect(p.x0, p.y0, p.x0+p.w, p.y0+p.h))
	})
}

func (p cropParams) coords(coords []augment.Point) []augment.Point {
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		out[i] = augment.Point{X: c.X - float64(p.x0), Y: c.Y - float64(p.y0)}
	}
	return out
}

func cropWindow(name string, img *ndimage.Array, crop []int) error {
	if err := requireImage(name, img); err != nil {
		return err
	}
	if crop[0] > img.Height() || crop[1] > img.Width() {
		return fmt.Errorf("%s: crop %v larger than image %dx%d", name, crop, img.Height(), img.Width())
	}
	return nil
}

// RandomCrop cuts a window of fixed size at a uniformly random position.
type RandomCrop struct {
	augment.Base
	crop []int // [h, w]
}

// NewRandomCrop creates a RandomCrop producing h×w windows.
func NewRandomCrop(h, w int) (*RandomCrop, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("crop shape must be positive, got %dx%d", h, w)
	}
	c := &RandomCrop{crop: []int{h, w}}
	c.ResetState()
	return c, nil
}

func (c *RandomCrop) Name() string { return "RandomCrop" }

func (c *RandomCrop) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := cropWindow(c.Name(), img, c.crop); err != nil {
		return nil, err
	}
	p := cropParams{h: c.crop[0], w: c.crop[1]}
	if d := img.Height() - c.crop[0]; d > 0 {
		p.y0 = c.Rng().IntN(d + 1)
	}
	if d := img.Width() - c.crop[1]; d > 0 {
		p.x0 = c.Rng().IntN(d + 1)
	}
	return p, nil
}

func (c *RandomCrop) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	cp, err := paramsAs[cropParams](c.Name(), p)
	if err != nil {
		return nil, err
	}
	return cp.apply(img)
}

func (c *RandomCrop) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	cp, err := paramsAs[cropParams](c.Name(), p)
	if err != nil {
		return nil, err
	}
	return cp.coords(coords), nil
}

func (c *RandomCrop) Config() augment.Config {
	return augment.Config{"crop_shape": []int{c.crop[0], c.crop[1]}}
}

func (c *RandomCrop) String() string { return augment.Describe(c) }

// CenterCrop cuts a window of fixed size from the middle of the image.
type CenterCrop struct {
	augment.Base
	crop []int
}

// NewCenterCrop creates a CenterCrop producing h×w windows.
func NewCenterCrop(h, w int) (*CenterCrop, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("crop shape must be positive, got %dx%d", h, w)
	}
	c := &CenterCrop{crop: []int{h, w}}
	c.ResetState()
	return c, nil
}

func (c *CenterCrop) Name() string { return "CenterCrop" }

func (c *CenterCrop) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := cropWindow(c.Name(), img, c.crop); err != nil {
		return nil, err
	}
	return cropParams{
		x0: (img.Width() - c.crop[1]) / 2,
		y0: (img.Height() - c.crop[0]) / 2,
		h:  c.crop[0],
		w:  c.crop[1],
	}, nil
}

func (c *CenterCrop) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	cp, err := paramsAs[cropParams](c.Name(), p)
	if err != nil {
		return nil, err
	}
	return cp.apply(img)
}

func (c *CenterCrop) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	cp, err := paramsAs[cropParams](c.Name(), p)
	if err != nil {
		return nil, err
	}
	return cp.coords(coords), nil
}

func (c *CenterCrop) Config() augment.Config {
	return augment.Config{"crop_shape": []int{c.crop[0], c.crop[1]}}
}

func (c *CenterCrop) String() string { return augment.Describe(c) }

// pasteParams is where the image lands on the background canvas.
type pasteParams struct {
	x0, y0 int
}

// RandomPaste places the image at a random position on a larger constant
// background.
type RandomPaste struct {
	augment.Base
	shape []int // [h, w] of the background
	fill  float64
}

// NewRandomPaste creates a RandomPaste onto an h×w background filled with
// the gray level fill.
func NewRandomPaste(h, w int, fill float64) (*RandomPaste, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("background shape must be positive, got %dx%d", h, w)
	}
	if fill < 0 || fill > 255 {
		return nil, fmt.Errorf("fill must be in [0, 255], got %v", fill)
	}
	r := &RandomPaste{shape: []int{h, w}, fill: fill}
	r.ResetState()
	return r, nil
}

func (r *RandomPaste) Name() string { return "RandomPaste" }

func (r *RandomPaste) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(r.Name(), img); err != nil {
		return nil, err
	}
	dh, dw := r.shape[0]-img.Height(), r.shape[1]-img.Width()
	if dh < 0 || dw < 0 {
		return nil, fmt.Errorf("%s: image %dx%d larger than background %v", r.Name(), img.Height(), img.Width(), r.shape)
	}
	return pasteParams{x0: r.Rng().IntN(dw + 1), y0: r.Rng().IntN(dh + 1)}, nil
}

func (r *RandomPaste) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	pp, err := paramsAs[pasteParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	g := uint8(r.fill + 0.5)
	return viaImage(img, func(src image.Image) image.Image {
		bg := imaging.New(r.shape[1], r.shape[0], color.NRGBA{R: g, G: g, B: g, A: 255})
		return imaging.Paste(bg, src, image.Pt(pp.x0, pp.y0))
	})
}

func (r *RandomPaste) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	pp, err := paramsAs[pasteParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		out[i] = augment.Point{X: c.X + float64(pp.x0), Y: c.Y + float64(pp.y0)}
	}
	return out, nil
}

func (r *RandomPaste) Config() augment.Config {
	return augment.Config{"background_shape": []int{r.shape[0], r.shape[1]}, "fill": r.fill}
}

func (r *RandomPaste) String() string { return augment.Describe(r) }

var cropSpecs = []augment.Spec{
	{
		Name: "RandomCrop",
		Doc:  "Crop a random window of crop_shape [h, w].",
		Schema: augment.Schema{
			{Name: "crop_shape", Kind: augment.KindIntPair, Required: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			s := cfg.Ints("crop_shape")
			return NewRandomCrop(s[0], s[1])
		},
	},
	{
		Name: "CenterCrop",
		Doc:  "Crop the central window of crop_shape [h, w].",
		Schema: augment.Schema{
			{Name: "crop_shape", Kind: augment.KindIntPair, Required: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			s := cfg.Ints("crop_shape")
			return NewCenterCrop(s[0], s[1])
		},
	},
	{
		Name: "RandomPaste",
		Doc:  "Paste onto a background of background_shape [h, w] at a random offset.",
		Schema: augment.Schema{
			{Name: "background_shape", Kind: augment.KindIntPair, Required: true},
			{Name: "fill", Kind: augment.KindFloat, Default: 0.0},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			s := cfg.Ints("background_shape")
			return NewRandomPaste(s[0], s[1], cfg.Float("fill"))
		},
	},
}
