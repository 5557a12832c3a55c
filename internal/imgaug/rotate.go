package imgaug

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

type rotationParams struct {
	deg    float64
	cx, cy int
}

// Rotation rotates the image clockwise by a random angle in
// [-max_deg, max_deg] about its centre, keeping the canvas size. Uncovered
// corners become black.
type Rotation struct {
	augment.Base
	maxDeg float64
}

// NewRotation creates a Rotation.
func NewRotation(maxDeg float64) (*Rotation, error) {
	if maxDeg < 0 || maxDeg > 180 {
		return nil, fmt.Errorf("max_deg must be in [0, 180], got %v", maxDeg)
	}
	r := &Rotation{maxDeg: maxDeg}
	r.ResetState()
	return r, nil
}

func (r *Rotation) Name() string { return "Rotation" }

func (r *Rotation) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(r.Name(), img); err != nil {
		return nil, err
	}
	return rotationParams{
		deg: r.RandRange(-r.maxDeg, r.maxDeg),
		cx:  img.Width() / 2,
		cy:  img.Height() / 2,
	}, nil
}

func (r *Rotation) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	rp, err := paramsAs[rotationParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	return viaImage(img, func(src image.Image) image.Image {
		// transform.Rotate truncates source positions in (-1, 0) to 0 and so
		// repeats the first row and column. Rotating inside a one pixel black
		// border keeps every output pixel where AugmentCoords puts it.
		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		padded := imaging.Paste(imaging.New(w+2, h+2, color.Black), src, image.Pt(1, 1))
		out := transform.Rotate(padded, rp.deg, &transform.RotationOptions{
			ResizeBounds: false,
			Pivot:        &image.Point{X: rp.cx + 1, Y: rp.cy + 1},
		})
		return imaging.Crop(out, image.Rect(1, 1, w+1, h+1))
	})
}

// AugmentCoords rotates points about the same pivot. Pixel (x, y) covers
// [x, x+1) × [y, y+1), so its centre lands inside the pixel it was moved to.
// With y pointing down a positive angle turns clockwise on screen.
func (r *Rotation) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	rp, err := paramsAs[rotationParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	sin, cos := math.Sincos(rp.deg * math.Pi / 180)
	cx, cy := float64(rp.cx), float64(rp.cy)
	out := make([]augment.Point, len(coords))
	for i, c := range coords {
		dx, dy := c.X-cx, c.Y-cy
		out[i] = augment.Point{
			X: cx + dx*cos - dy*sin,
			Y: cy + dx*sin + dy*cos,
		}
	}
	return out, nil
}

func (r *Rotation) Config() augment.Config { return augment.Config{"max_deg": r.maxDeg} }

func (r *Rotation) String() string { return augment.Describe(r) }

var rotationSpec = augment.Spec{
	Name: "Rotation",
	Doc:  "Rotate about the centre by a random angle in [-max_deg, max_deg].",
	Schema: augment.Schema{
		{Name: "max_deg", Kind: augment.KindFloat, Default: 10.0},
	},
	New: func(cfg augment.Config) (augment.Augmentor, error) {
		return NewRotation(cfg.Float("max_deg"))
	},
}
