package imgaug

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// filters maps interpolation names to imaging resampling filters.
var filters = map[string]imaging.ResampleFilter{
	"nearest": imaging.NearestNeighbor,
	"linear":  imaging.Linear,
	"cubic":   imaging.CatmullRom,
	"lanczos": imaging.Lanczos,
	"box":     imaging.Box,
}

func filterFor(interp string) (imaging.ResampleFilter, error) {
	f, ok := filters[interp]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown interpolation %q", interp)
	}
	return f, nil
}

// viaImage runs an image-library operation on an array and converts the
// result back into the array's layout.
func viaImage(img *ndimage.Array, op func(image.Image) image.Image) (*ndimage.Array, error) {
	src, err := img.ToImage()
	if err != nil {
		return nil, err
	}
	return ndimage.FromImageLike(op(src), img), nil
}

// pixelOnly marks augmentors that never move pixels. Masks replayed
// through augment.ReplayOnMask skip them.
type pixelOnly struct{}

func (pixelOnly) PixelOnly() {}

// paramsAs asserts the concrete params type an augmentor expects.
func paramsAs[T any](name string, p augment.Params) (T, error) {
	v, ok := p.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s wants %T, got %T", augment.ErrParamsMismatch, name, zero, p)
	}
	return v, nil
}

// requireImage rejects arrays that are not rank 2 or 3.
func requireImage(name string, img *ndimage.Array) error {
	if !img.IsImage() {
		return fmt.Errorf("%s: %w: got shape %v", name, augment.ErrDimension, img.Shape)
	}
	return nil
}

// requireColor rejects arrays without RGB channels.
func requireColor(name string, img *ndimage.Array) error {
	if err := requireImage(name, img); err != nil {
		return err
	}
	if ch := img.Channels(); ch != 3 && ch != 4 {
		return fmt.Errorf("%s needs an RGB image, got %d channels", name, ch)
	}
	return nil
}
