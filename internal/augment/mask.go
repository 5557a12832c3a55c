package augment

import "github.com/ironsheep/image-augment/internal/ndimage"

// PixelOnly is implemented by augmentors that change pixel values without
// moving any pixel. ReplayOnMask leaves a mask unchanged for them.
type PixelOnly interface {
	PixelOnly()
}

// MaskReplayer is implemented by augmentors that hold children and replay
// each one on a mask through ReplayOnMask.
type MaskReplayer interface {
	AugmentMaskWithParams(mask *ndimage.Array, p Params) (*ndimage.Array, error)
}

// ReplayOnMask applies the geometric part of p to a label mask: pixel-only
// augmentors are skipped, composites recurse, and everything else replays
// with AugmentWithParams.
func ReplayOnMask(a Augmentor, mask *ndimage.Array, p Params) (*ndimage.Array, error) {
	switch v := a.(type) {
	case PixelOnly:
		return mask, nil
	case MaskReplayer:
		return v.AugmentMaskWithParams(mask, p)
	}
	return a.AugmentWithParams(mask, p)
}
