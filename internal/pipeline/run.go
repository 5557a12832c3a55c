package pipeline

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// Result is one sampled augmentation.
type Result struct {
	Image  *ndimage.Array
	Mask   *ndimage.Array  // nil when no mask was given
	Points []augment.Point // nil when no points were given
	Params augment.Params
}

// Run augments img, then replays the geometric part of the same parameters
// on mask and maps points through them. Augmentors that only change pixel
// values leave the mask untouched. mask and points are optional.
func (p *Pipeline) Run(img, mask *ndimage.Array, points []augment.Point) (*Result, error) {
	out, params, err := p.List.AugmentReturnParams(img)
	if err != nil {
		return nil, err
	}
	res := &Result{Image: out, Params: params}

	if mask != nil {
		if res.Mask, err = p.List.AugmentMaskWithParams(mask, params); err != nil {
			return nil, fmt.Errorf("mask: %w", err)
		}
	}
	if points != nil {
		if res.Points, err = p.List.AugmentCoords(points, params); err != nil {
			return nil, fmt.Errorf("points: %w", err)
		}
	}
	return res, nil
}
