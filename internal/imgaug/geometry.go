package imgaug

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// resizeParams records the size change so coordinates can be rescaled.
type resizeParams struct {
	h, w       int
	newH, newW int
}

func (p resizeParams) coords(coords []augment.Point) []augment.Point {
	sx := float64(p.newW) / float64(p.w)
	sy := float64(p.newH) / float64(p.h)
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		out[i] = augment.Point{X: c.X * sx, Y: c.Y * sy}
	}
	return out
}

func applyResize(name string, img *ndimage.Array, p augment.Params, interp string) (*ndimage.Array, error) {
	rp, err := paramsAs[resizeParams](name, p)
	if err != nil {
		return nil, err
	}
	filter, err := filterFor(interp)
	if err != nil {
		return nil, err
	}
	return viaImage(img, func(src image.Image) image.Image {
		return imaging.Resize(src, rp.newW, rp.newH, filter)
	})
}

// Resize scales the image to a fixed shape.
type Resize struct {
	augment.Base
	shape  []int // [h, w]
	interp string
}

// NewResize creates a Resize to h×w pixels using the named interpolation
// ("nearest", "linear", "cubic", "lanczos" or "box").
func NewResize(h, w int, interp string) (*Resize, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("resize shape must be positive, got %dx%d", h, w)
	}
	if _, err := filterFor(interp); err != nil {
		return nil, err
	}
	r := &Resize{shape: []int{h, w}, interp: interp}
	r.ResetState()
	return r, nil
}

func (r *Resize) Name() string { return "Resize" }

func (r *Resize) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(r.Name(), img); err != nil {
		return nil, err
	}
	return resizeParams{h: img.Height(), w: img.Width(), newH: r.shape[0], newW: r.shape[1]}, nil
}

func (r *Resize) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	return applyResize(r.Name(), img, p, r.interp)
}

func (r *Resize) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	rp, err := paramsAs[resizeParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	return rp.coords(coords), nil
}

func (r *Resize) Config() augment.Config {
	return augment.Config{"shape": []int{r.shape[0], r.shape[1]}, "interp": r.interp}
}

func (r *Resize) String() string { return augment.Describe(r) }

// ResizeShortestEdge scales the image so its shorter side equals size,
// keeping the aspect ratio.
type ResizeShortestEdge struct {
	augment.Base
	size   int
	interp string
}

// NewResizeShortestEdge creates a ResizeShortestEdge.
func NewResizeShortestEdge(size int, interp string) (*ResizeShortestEdge, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", size)
	}
	if _, err := filterFor(interp); err != nil {
		return nil, err
	}
	r := &ResizeShortestEdge{size: size, interp: interp}
	r.ResetState()
	return r, nil
}

func (r *ResizeShortestEdge) Name() string { return "ResizeShortestEdge" }

func (r *ResizeShortestEdge) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(r.Name(), img); err != nil {
		return nil, err
	}
	h, w := img.Height(), img.Width()
	scale := float64(r.size) / float64(min(h, w))
	newH, newW := r.size, r.size
	if h < w {
		newW = int(math.Round(float64(w) * scale))
	} else {
		newH = int(math.Round(float64(h) * scale))
	}
	return resizeParams{h: h, w: w, newH: newH, newW: newW}, nil
}

func (r *ResizeShortestEdge) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	return applyResize(r.Name(), img, p, r.interp)
}

func (r *ResizeShortestEdge) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	rp, err := paramsAs[resizeParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	return rp.coords(coords), nil
}

func (r *ResizeShortestEdge) Config() augment.Config {
	return augment.Config{"size": r.size, "interp": r.interp}
}

func (r *ResizeShortestEdge) String() string { return augment.Describe(r) }

// flipParams records whether the flip fired and the image size it fired on.
type flipParams struct {
	do   bool
	h, w int
}

// Flip mirrors the image horizontally or vertically with probability prob.
type Flip struct {
	augment.Base
	horiz, vert bool
	prob        float64
}

// NewFlip creates a Flip. Exactly one of horiz and vert must be set.
func NewFlip(horiz, vert bool, prob float64) (*Flip, error) {
	if horiz && vert {
		return nil, fmt.Errorf("cannot flip both horizontally and vertically")
	}
	if !horiz && !vert {
		return nil, fmt.Errorf("flip needs horiz or vert")
	}
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("prob must be in [0, 1], got %v", prob)
	}
	f := &Flip{horiz: horiz, vert: vert, prob: prob}
	f.ResetState()
	return f, nil
}

func (f *Flip) Name() string { return "Flip" }

func (f *Flip) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(f.Name(), img); err != nil {
		return nil, err
	}
	return flipParams{do: f.Rand(1) < f.prob, h: img.Height(), w: img.Width()}, nil
}

func (f *Flip) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	fp, err := paramsAs[flipParams](f.Name(), p)
	if err != nil {
		return nil, err
	}
	if !fp.do {
		return img, nil
	}
	return viaImage(img, func(src image.Image) image.Image {
		if f.horiz {
			return imaging.FlipH(src)
		}
		return imaging.FlipV(src)
	})
}

func (f *Flip) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	fp, err := paramsAs[flipParams](f.Name(), p)
	if err != nil {
		return nil, err
	}
	if !fp.do {
		return coords, nil
	}
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		if f.horiz {
			out[i] = augment.Point{X: float64(fp.w) - c.X, Y: c.Y}
		} else {
			out[i] = augment.Point{X: c.X, Y: float64(fp.h) - c.Y}
		}
	}
	return out, nil
}

func (f *Flip) Config() augment.Config {
	return augment.Config{"horiz": f.horiz, "vert": f.vert, "prob": f.prob}
}

func (f *Flip) String() string { return augment.Describe(f) }

// Transpose swaps the image axes with probability prob.
type Transpose struct {
	augment.Base
	prob float64
}

// NewTranspose creates a Transpose.
func NewTranspose(prob float64) (*Transpose, error) {
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("prob must be in [0, 1], got %v", prob)
	}
	t := &Transpose{prob: prob}
	t.ResetState()
	return t, nil
}

func (t *Transpose) Name() string { return "Transpose" }

func (t *Transpose) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(t.Name(), img); err != nil {
		return nil, err
	}
	return t.Rand(1) < t.prob, nil
}

func (t *Transpose) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	do, err := paramsAs[bool](t.Name(), p)
	if err != nil {
		return nil, err
	}
	if !do {
		return img, nil
	}
	return viaImage(img, func(src image.Image) image.Image {
		return imaging.Transpose(src)
	})
}

func (t *Transpose) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	do, err := paramsAs[bool](t.Name(), p)
	if err != nil {
		return nil, err
	}
	if !do {
		return coords, nil
	}
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		out[i] = augment.Point{X: c.Y, Y: c.X}
	}
	return out, nil
}

func (t *Transpose) Config() augment.Config { return augment.Config{"prob": t.prob} }

func (t *Transpose) String() string { return augment.Describe(t) }

var geometrySpecs = []augment.Spec{
	{
		Name: "Resize",
		Doc:  "Resize to a fixed [h, w].",
		Schema: augment.Schema{
			{Name: "shape", Kind: augment.KindIntPair, Required: true, Doc: "target [h, w]"},
			{Name: "interp", Kind: augment.KindString, Default: "linear"},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			s := cfg.Ints("shape")
			return NewResize(s[0], s[1], cfg.String("interp"))
		},
	},
	{
		Name: "ResizeShortestEdge",
		Doc:  "Resize so the shorter side equals size, keeping aspect ratio.",
		Schema: augment.Schema{
			{Name: "size", Kind: augment.KindInt, Required: true},
			{Name: "interp", Kind: augment.KindString, Default: "linear"},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewResizeShortestEdge(cfg.Int("size"), cfg.String("interp"))
		},
	},
	{
		Name: "Flip",
		Doc:  "Mirror horizontally or vertically with probability prob.",
		Schema: augment.Schema{
			{Name: "horiz", Kind: augment.KindBool, Default: true},
			{Name: "vert", Kind: augment.KindBool, Default: false},
			{Name: "prob", Kind: augment.KindFloat, Default: 0.5},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewFlip(cfg.Bool("horiz"), cfg.Bool("vert"), cfg.Float("prob"))
		},
	},
	{
		Name: "Transpose",
		Doc:  "Swap the x and y axes with probability prob.",
		Schema: augment.Schema{
			{Name: "prob", Kind: augment.KindFloat, Default: 0.5},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewTranspose(cfg.Float("prob"))
		},
	},
}
