package ndimage

import (
	"image"
	"image/color"
	"testing"
)

// createPatternImage creates an opaque image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			case x < width/2 && y >= height/2:
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			default:
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		shape    []int
		wantLen  int
		wantNdim int
		wantCh   int
	}{
		{"gray", []int{4, 5}, 20, 2, 1},
		{"rgb", []int{4, 5, 3}, 60, 3, 3},
		{"vector", []int{7}, 7, 1, 0},
		{"batch", []int{2, 4, 5, 3}, 120, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.shape...)
			if a.Len() != tt.wantLen {
				t.Errorf("Len: got %d, want %d", a.Len(), tt.wantLen)
			}
			if a.Ndim() != tt.wantNdim {
				t.Errorf("Ndim: got %d, want %d", a.Ndim(), tt.wantNdim)
			}
			if a.Channels() != tt.wantCh {
				t.Errorf("Channels: got %d, want %d", a.Channels(), tt.wantCh)
			}
		})
	}
}

func TestIsImage(t *testing.T) {
	if !New(2, 2).IsImage() || !New(2, 2, 3).IsImage() {
		t.Error("rank 2 and rank 3 arrays should be images")
	}
	if New(4).IsImage() || New(1, 2, 2, 3).IsImage() {
		t.Error("rank 1 and rank 4 arrays should not be images")
	}
	var nilArr *Array
	if nilArr.IsImage() {
		t.Error("nil array should not be an image")
	}
}

func TestSetAt(t *testing.T) {
	a := New(3, 4, 3)
	a.Set(2, 1, 2, 42)
	if got := a.At(2, 1, 2); got != 42 {
		t.Errorf("At: got %v, want 42", got)
	}
	if got := a.Pix[(2*4+1)*3+2]; got != 42 {
		t.Errorf("row-major layout: got %v, want 42", got)
	}
}

func TestClone_Independent(t *testing.T) {
	a := Filled(7, 2, 2)
	b := a.Clone()
	b.Set(0, 0, 0, 1)
	if a.At(0, 0, 0) != 7 {
		t.Error("mutating the clone changed the original")
	}
	b.Shape[0] = 9
	if a.Shape[0] != 2 {
		t.Error("clone shares its shape slice with the original")
	}
}

func TestEqual(t *testing.T) {
	a := Filled(1, 2, 3)
	if !a.Equal(a.Clone()) {
		t.Error("clone should be equal")
	}
	if a.Equal(Filled(1, 3, 2)) {
		t.Error("different shapes should not be equal")
	}
	b := a.Clone()
	b.Pix[5] = 2
	if a.Equal(b) {
		t.Error("different values should not be equal")
	}
}

func TestClampAndMinMax(t *testing.T) {
	a := &Array{Shape: []int{1, 4}, Pix: []float32{-10, 0, 100, 300}}
	lo, hi := a.MinMax()
	if lo != -10 || hi != 300 {
		t.Errorf("MinMax: got (%v,%v), want (-10,300)", lo, hi)
	}
	a.Clamp(0, 255)
	lo, hi = a.MinMax()
	if lo != 0 || hi != 255 {
		t.Errorf("after Clamp: got (%v,%v), want (0,255)", lo, hi)
	}
}

func TestFromImage_Pattern(t *testing.T) {
	a := FromImage(createPatternImage(10, 8))

	if a.Ndim() != 3 || a.Height() != 8 || a.Width() != 10 || a.Channels() != 3 {
		t.Fatalf("shape: got %v, want [8 10 3]", a.Shape)
	}

	tests := []struct {
		name    string
		y, x    int
		r, g, b float32
	}{
		{"top-left red", 1, 1, 255, 0, 0},
		{"top-right green", 1, 8, 0, 255, 0},
		{"bottom-left blue", 6, 1, 0, 0, 255},
		{"bottom-right white", 6, 8, 255, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := a.At(tt.y, tt.x, 0), a.At(tt.y, tt.x, 1), a.At(tt.y, tt.x, 2)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("got (%v,%v,%v), want (%v,%v,%v)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestFromImage_Alpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 40})
	a := FromImage(img)
	if a.Channels() != 4 {
		t.Fatalf("channels: got %d, want 4", a.Channels())
	}
	if a.At(0, 0, 3) != 40 {
		t.Errorf("alpha: got %v, want 40", a.At(0, 0, 3))
	}
}

func TestFromRGB_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 40})
	a := FromRGB(img)
	if a.Channels() != 3 {
		t.Fatalf("channels: got %d, want 3", a.Channels())
	}
	if a.At(0, 1, 2) != 30 {
		t.Errorf("blue: got %v, want 30", a.At(0, 1, 2))
	}
}

func TestFromGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(2, 1, color.Gray{Y: 200})
	a := FromGray(img)
	if a.Ndim() != 2 {
		t.Fatalf("rank: got %d, want 2", a.Ndim())
	}
	if a.At(1, 2, 0) != 200 {
		t.Errorf("value: got %v, want 200", a.At(1, 2, 0))
	}
}

func TestToImage_RoundTrip(t *testing.T) {
	src := createPatternImage(6, 6)
	a := FromImage(src)

	out, err := a.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	back := FromImage(out)
	if !a.Equal(back) {
		t.Error("round trip through ToImage changed pixel values")
	}
}

func TestToImage_RoundsAndClamps(t *testing.T) {
	a := &Array{Shape: []int{1, 3}, Pix: []float32{-5, 127.6, 400}}
	img, err := a.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("type: got %T, want *image.Gray", img)
	}
	want := []uint8{0, 128, 255}
	for i, w := range want {
		if g.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, g.Pix[i], w)
		}
	}
}

func TestToImage_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
	}{
		{"rank 1", []int{4}},
		{"rank 4", []int{1, 2, 2, 3}},
		{"two channels", []int{2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.shape...).ToImage(); err == nil {
				t.Error("ToImage should fail")
			}
		})
	}
}

func TestFromImageLike(t *testing.T) {
	src := createPatternImage(4, 4)

	gray := New(4, 4)
	if got := FromImageLike(src, gray); got.Ndim() != 2 {
		t.Errorf("gray ref: got shape %v", got.Shape)
	}

	single := New(4, 4, 1)
	if got := FromImageLike(src, single); got.Ndim() != 3 || got.Channels() != 1 {
		t.Errorf("single-channel ref: got shape %v", got.Shape)
	}

	rgb := New(4, 4, 3)
	if got := FromImageLike(src, rgb); !got.SameShape(rgb) {
		t.Errorf("rgb ref: got shape %v", got.Shape)
	}
}
