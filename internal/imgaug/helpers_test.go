package imgaug

import (
	"math"
	"testing"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// patternImage returns an h×w RGB image whose pixels are all distinct for
// images up to 16×16.
func patternImage(h, w int) *ndimage.Array {
	img := ndimage.New(h, w, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(y, x, 0, float32(y*16+x))
			img.Set(y, x, 1, float32(x*8))
			img.Set(y, x, 2, float32(y*8))
		}
	}
	return img
}

// dotImage returns a black rank 2 image with a single white pixel.
func dotImage(h, w, x, y int) *ndimage.Array {
	img := ndimage.New(h, w)
	img.Set(y, x, 0, 255)
	return img
}

// pixelCentre is the coordinate of the centre of pixel (x, y).
func pixelCentre(x, y int) augment.Point {
	return augment.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

// brightAt reports whether the pixel containing p is white.
func brightAt(img *ndimage.Array, p augment.Point) bool {
	x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
	if x < 0 || y < 0 || x >= img.Width() || y >= img.Height() {
		return false
	}
	return img.At(y, x, 0) > 200
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func mustAugment(t *testing.T, a augment.Augmentor, img *ndimage.Array) (*ndimage.Array, augment.Params) {
	t.Helper()
	out, p, err := augment.AugmentReturnParams(a, img)
	if err != nil {
		t.Fatalf("%s: %v", a.Name(), err)
	}
	return out, p
}
