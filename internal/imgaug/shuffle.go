package imgaug

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// PatchShuffle tiles the image into a grid×grid layout and permutes the
// cells. Pixels past the last full cell stay where they are. Its parameters
// are the permutation: cell i of the output comes from cell perm[i].
//
// Points inside a cell could be moved, but points on cell borders have no
// single destination, so AugmentCoords reports ErrCoordsNotImplemented.
type PatchShuffle struct {
	augment.Base
	grid int
}

// NewPatchShuffle creates a PatchShuffle with grid cells per side.
func NewPatchShuffle(grid int) (*PatchShuffle, error) {
	if grid < 1 {
		return nil, fmt.Errorf("grid must be at least 1, got %d", grid)
	}
	s := &PatchShuffle{grid: grid}
	s.ResetState()
	return s, nil
}

func (s *PatchShuffle) Name() string { return "PatchShuffle" }

func (s *PatchShuffle) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(s.Name(), img); err != nil {
		return nil, err
	}
	if img.Height() < s.grid || img.Width() < s.grid {
		return nil, fmt.Errorf("%s: image %dx%d smaller than grid %d", s.Name(), img.Height(), img.Width(), s.grid)
	}
	return s.Rng().Perm(s.grid * s.grid), nil
}

func (s *PatchShuffle) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	perm, err := paramsAs[[]int](s.Name(), p)
	if err != nil {
		return nil, err
	}
	if len(perm) != s.grid*s.grid {
		return nil, fmt.Errorf("%w: %s wants %d cells, got %d", augment.ErrParamsMismatch, s.Name(), s.grid*s.grid, len(perm))
	}
	ch, cw := img.Height()/s.grid, img.Width()/s.grid
	if ch == 0 || cw == 0 {
		return nil, fmt.Errorf("%s: image %dx%d smaller than grid %d", s.Name(), img.Height(), img.Width(), s.grid)
	}

	cell := func(i int) image.Rectangle {
		x, y := (i%s.grid)*cw, (i/s.grid)*ch
		return image.Rect(x, y, x+cw, y+ch)
	}
	return viaImage(img, func(src image.Image) image.Image {
		dst := imaging.Clone(src)
		for i, from := range perm {
			patch := imaging.Crop(src, cell(from))
			dst = imaging.Paste(dst, patch, cell(i).Min)
		}
		return dst
	})
}

func (s *PatchShuffle) AugmentCoords([]augment.Point, augment.Params) ([]augment.Point, error) {
	return nil, fmt.Errorf("%s: %w", s.Name(), augment.ErrCoordsNotImplemented)
}

func (s *PatchShuffle) Config() augment.Config { return augment.Config{"grid": s.grid} }

func (s *PatchShuffle) String() string { return augment.Describe(s) }

var shuffleSpec = augment.Spec{
	Name: "PatchShuffle",
	Doc:  "Permute the cells of a grid×grid tiling.",
	Schema: augment.Schema{
		{Name: "grid", Kind: augment.KindInt, Default: 2},
	},
	New: func(cfg augment.Config) (augment.Augmentor, error) {
		return NewPatchShuffle(cfg.Int("grid"))
	},
}
