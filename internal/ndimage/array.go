package ndimage

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Array is a dense row-major float32 array.
//
// For rank 3 arrays the element (y, x, c) lives at
// Pix[(y*Shape[1]+x)*Shape[2]+c]; for rank 2 arrays (y, x) lives at
// Pix[y*Shape[1]+x].
type Array struct {
	Shape []int
	Pix   []float32
}

// New allocates a zero-filled array with the given shape.
func New(shape ...int) *Array {
	n := 1
	for _, d := range shape {
		if d < 0 {
			d = 0
		}
		n *= d
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return &Array{Shape: s, Pix: make([]float32, n)}
}

// Filled allocates an array with every element set to v.
func Filled(v float32, shape ...int) *Array {
	a := New(shape...)
	for i := range a.Pix {
		a.Pix[i] = v
	}
	return a
}

// Ndim returns the rank of the array.
func (a *Array) Ndim() int { return len(a.Shape) }

// IsImage reports whether the array has rank 2 or 3.
func (a *Array) IsImage() bool {
	return a != nil && (len(a.Shape) == 2 || len(a.Shape) == 3)
}

// Height returns the size of the first axis.
func (a *Array) Height() int {
	if len(a.Shape) < 1 {
		return 0
	}
	return a.Shape[0]
}

// Width returns the size of the second axis.
func (a *Array) Width() int {
	if len(a.Shape) < 2 {
		return 0
	}
	return a.Shape[1]
}

// Channels returns 1 for rank 2 arrays and the size of the third axis for
// rank 3 arrays. Other ranks have no channel axis and return 0.
func (a *Array) Channels() int {
	switch len(a.Shape) {
	case 2:
		return 1
	case 3:
		return a.Shape[2]
	}
	return 0
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Pix) }

func (a *Array) index(y, x, c int) int {
	return (y*a.Width()+x)*a.Channels() + c
}

// At returns the element at row y, column x, channel c. Rank 2 arrays only
// have channel 0.
func (a *Array) At(y, x, c int) float32 { return a.Pix[a.index(y, x, c)] }

// Set stores v at row y, column x, channel c.
func (a *Array) Set(y, x, c int, v float32) { a.Pix[a.index(y, x, c)] = v }

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	b := &Array{Shape: make([]int, len(a.Shape)), Pix: make([]float32, len(a.Pix))}
	copy(b.Shape, a.Shape)
	copy(b.Pix, a.Pix)
	return b
}

// SameShape reports whether a and b have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}

// Equal reports whether a and b have the same shape and identical elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.SameShape(b) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

// Apply replaces every element with f(element) in place and returns a.
func (a *Array) Apply(f func(float32) float32) *Array {
	for i, v := range a.Pix {
		a.Pix[i] = f(v)
	}
	return a
}

// Clamp limits every element to [lo, hi] in place and returns a.
func (a *Array) Clamp(lo, hi float32) *Array {
	return a.Apply(func(v float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	})
}

// MinMax returns the smallest and largest element. Empty arrays return 0, 0.
func (a *Array) MinMax() (float32, float32) {
	if len(a.Pix) == 0 {
		return 0, 0
	}
	lo, hi := a.Pix[0], a.Pix[0]
	for _, v := range a.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// FromImage converts img to a rank 3 array. Opaque images yield three
// channels (R, G, B); images reporting transparency yield four.
func FromImage(img image.Image) *Array {
	channels := 3
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		channels = 4
	}
	return fromNRGBA(imaging.Clone(img), 3, channels)
}

// FromRGB converts img to a rank 3 array with three channels, dropping
// alpha.
func FromRGB(img image.Image) *Array {
	return fromNRGBA(imaging.Clone(img), 3, 3)
}

// FromGray converts img to a rank 2 luminance array.
func FromGray(img image.Image) *Array {
	return fromNRGBA(imaging.Grayscale(img), 2, 1)
}

// FromImageLike converts img into the same rank and channel count as ref.
// Single-channel layouts take the red channel, which is the luminance for
// the grayscale NRGBA images the image libraries return.
func FromImageLike(img image.Image, ref *Array) *Array {
	return fromNRGBA(imaging.Clone(img), ref.Ndim(), ref.Channels())
}

func fromNRGBA(src *image.NRGBA, rank, channels int) *Array {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var a *Array
	if rank == 2 {
		a = New(h, w)
		channels = 1
	} else {
		a = New(h, w, channels)
	}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			base := (y*w + x) * channels
			for c := 0; c < channels; c++ {
				a.Pix[base+c] = float32(px[c])
			}
		}
	}
	return a
}

// ToImage converts the array to an 8-bit image. Rank 2 and single-channel
// rank 3 arrays become *image.Gray; three- and four-channel arrays become
// *image.NRGBA. Values are rounded and clamped to [0, 255].
func (a *Array) ToImage() (image.Image, error) {
	if !a.IsImage() {
		return nil, fmt.Errorf("cannot convert array of shape %v to an image", a.Shape)
	}

	h, w, ch := a.Height(), a.Width(), a.Channels()
	rect := image.Rect(0, 0, w, h)

	switch ch {
	case 1:
		out := image.NewGray(rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetGray(x, y, color.Gray{Y: to8(a.Pix[y*w+x])})
			}
		}
		return out, nil
	case 3, 4:
		out := image.NewNRGBA(rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				base := (y*w + x) * ch
				i := out.PixOffset(x, y)
				out.Pix[i] = to8(a.Pix[base])
				out.Pix[i+1] = to8(a.Pix[base+1])
				out.Pix[i+2] = to8(a.Pix[base+2])
				if ch == 4 {
					out.Pix[i+3] = to8(a.Pix[base+3])
				} else {
					out.Pix[i+3] = 255
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert %d-channel array to an image", ch)
	}
}

// to8 rounds and clamps a float pixel value to uint8.
func to8(v float32) uint8 {
	r := math.Round(float64(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
