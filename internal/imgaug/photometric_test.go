package imgaug

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

func TestBrightness_ReplayAndClip(t *testing.T) {
	b, err := NewBrightness(50, true)
	if err != nil {
		t.Fatal(err)
	}
	img := ndimage.Filled(240, 3, 3, 3)
	out, p := mustAugment(t, b, img)

	d := p.(float64)
	if d < -50 || d > 50 {
		t.Fatalf("delta %v outside [-50, 50]", d)
	}
	lo, hi := out.MinMax()
	if lo < 0 || hi > 255 {
		t.Errorf("clip: range [%v, %v]", lo, hi)
	}

	mask := ndimage.Filled(100, 3, 3)
	replayed, err := b.AugmentWithParams(mask, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := 100 + float32(d); replayed.At(1, 1, 0) != want {
		t.Errorf("replay: got %v, want %v", replayed.At(1, 1, 0), want)
	}
	if mask.At(0, 0, 0) != 100 {
		t.Error("input should not be modified")
	}
}

func TestBrightnessScale_Replay(t *testing.T) {
	b, err := NewBrightnessScale(0.5, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	img := patternImage(4, 4)
	out, p := mustAugment(t, b, img)
	again, err := b.AugmentWithParams(img, p)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(out) {
		t.Error("replay should reproduce the output")
	}
	if _, err := NewBrightnessScale(1.5, 0.5); err == nil {
		t.Error("inverted range should fail")
	}
}

func TestContrast_Replay(t *testing.T) {
	c, _ := NewContrast(0.2, 1.8)
	img := patternImage(5, 5)
	out, p := mustAugment(t, c, img)
	if !out.SameShape(img) {
		t.Fatalf("shape: got %v", out.Shape)
	}
	again, _ := c.AugmentWithParams(img, p)
	if !again.Equal(out) {
		t.Error("replay should reproduce the output")
	}
}

func TestHueJitter_RedToGreen(t *testing.T) {
	j, _ := NewHueJitter(0, 360)
	img := ndimage.New(1, 1, 3)
	img.Set(0, 0, 0, 255)

	out, err := j.AugmentWithParams(img, 120.0)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := float64(out.At(0, 0, 0)), float64(out.At(0, 0, 1)), float64(out.At(0, 0, 2))
	if !near(r, 0, 0.5) || !near(g, 255, 0.5) || !near(b, 0, 0.5) {
		t.Errorf("got (%v,%v,%v), want (0,255,0)", r, g, b)
	}
}

func TestSaturation(t *testing.T) {
	s, _ := NewSaturation(0.5)
	img := patternImage(3, 3)

	same, err := s.AugmentWithParams(img, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range img.Pix {
		if !near(float64(same.Pix[i]), float64(img.Pix[i]), 0.01) {
			t.Fatalf("factor 1 changed element %d: %v -> %v", i, img.Pix[i], same.Pix[i])
		}
	}

	gray, err := s.AugmentWithParams(img, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(float64(gray.At(2, 2, 0)), float64(gray.At(2, 2, 1)), 0.01) {
		t.Error("factor 0 should remove all color")
	}
}

func TestColorAugmentors_RejectGray(t *testing.T) {
	s, _ := NewSaturation(0.4)
	j, _ := NewHueJitter(-10, 10)
	for _, a := range []augment.Augmentor{s, j} {
		if _, err := a.AugmentParams(ndimage.New(4, 4)); err == nil {
			t.Errorf("%s: expected an error for a gray image", a.Name())
		}
	}
}

func TestGrayscale(t *testing.T) {
	img := patternImage(3, 4)

	flat, _ := mustAugment(t, NewGrayscale(false), img)
	if flat.Ndim() != 2 || flat.Width() != 4 {
		t.Errorf("keep_shape=false: got %v, want [3 4]", flat.Shape)
	}

	kept, _ := mustAugment(t, NewGrayscale(true), img)
	if !kept.SameShape(img) {
		t.Fatalf("keep_shape=true: got %v, want %v", kept.Shape, img.Shape)
	}
	if kept.At(1, 1, 0) != kept.At(1, 1, 2) {
		t.Error("channels should be equal after grayscale")
	}
}

func TestGaussianBlur(t *testing.T) {
	b, _ := NewGaussianBlur(3)
	img := dotImage(7, 7, 3, 3)

	same, _ := b.AugmentWithParams(img, 0.0)
	if !same.Equal(img) {
		t.Error("radius 0 should leave the image unchanged")
	}
	blurred, err := b.AugmentWithParams(img, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if blurred.At(3, 3, 0) >= 255 || blurred.At(3, 4, 0) == 0 {
		t.Errorf("blur should spread the dot: centre %v, neighbour %v", blurred.At(3, 3, 0), blurred.At(3, 4, 0))
	}
}

func TestGaussianNoise_ReplayOnMask(t *testing.T) {
	n, _ := NewGaussianNoise(10, false)
	img := ndimage.Filled(128, 4, 4)
	out, p := mustAugment(t, n, img)

	again, err := n.AugmentWithParams(ndimage.Filled(128, 4, 4), p)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(out) {
		t.Error("replaying the noise field should reproduce the output")
	}
	if _, err := n.AugmentWithParams(ndimage.New(2, 2), p); !errors.Is(err, augment.ErrParamsMismatch) {
		t.Errorf("size mismatch: got %v, want ErrParamsMismatch", err)
	}
}

func TestSaltPepperNoise(t *testing.T) {
	white, _ := NewSaltPepperNoise(1, 0)
	out, _ := mustAugment(t, white, ndimage.New(3, 3))
	if lo, _ := out.MinMax(); lo != 255 {
		t.Errorf("white_prob 1 should whiten everything, min %v", lo)
	}

	none, _ := NewSaltPepperNoise(0, 0)
	img := patternImage(3, 3)
	out, _ = mustAugment(t, none, img)
	if !out.Equal(img) {
		t.Error("zero probabilities should leave the image unchanged")
	}

	if _, err := NewSaltPepperNoise(0.7, 0.7); err == nil {
		t.Error("probabilities above 1 in total should fail")
	}
}

func TestClip(t *testing.T) {
	c, _ := NewClip(10, 20)
	img := &ndimage.Array{Shape: []int{1, 3}, Pix: []float32{0, 15, 30}}
	out, _ := mustAugment(t, c, img)
	want := []float32{10, 15, 20}
	for i := range want {
		if out.Pix[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, out.Pix[i], want[i])
		}
	}
}

func TestNormalize_RejectsBadRank(t *testing.T) {
	c, _ := NewClip(0, 1)
	mm, _ := NewMinMaxNormalize(0, 1, false)
	bad := ndimage.New(2, 2, 3, 1)
	for _, a := range []augment.Augmentor{c, mm, NewMeanStdNormalize(false)} {
		if _, _, err := augment.AugmentReturnParams(a, bad); !errors.Is(err, augment.ErrDimension) {
			t.Errorf("%s: got %v, want ErrDimension", a.Name(), err)
		}
	}
	if _, err := c.AugmentWithParams(bad, nil); !errors.Is(err, augment.ErrDimension) {
		t.Errorf("Clip replay: got %v, want ErrDimension", err)
	}
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name       string
		allChannel bool
		want       []float32
	}{
		{"all channels", true, []float32{0, 0.5, 0.25, 1}},
		{"per channel", false, []float32{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := NewMinMaxNormalize(0, 1, tt.allChannel)
			img := &ndimage.Array{Shape: []int{1, 2, 2}, Pix: []float32{0, 20, 10, 40}}
			out, _ := mustAugment(t, n, img)
			for i := range tt.want {
				if !near(float64(out.Pix[i]), float64(tt.want[i]), 1e-6) {
					t.Errorf("element %d: got %v, want %v", i, out.Pix[i], tt.want[i])
				}
			}
		})
	}
}

func TestMeanStdNormalize(t *testing.T) {
	n := NewMeanStdNormalize(true)
	img := &ndimage.Array{Shape: []int{2, 2}, Pix: []float32{1, 3, 1, 3}}
	out, _ := mustAugment(t, n, img)
	want := []float32{-1, 1, -1, 1}
	for i := range want {
		if !near(float64(out.Pix[i]), float64(want[i]), 1e-6) {
			t.Errorf("element %d: got %v, want %v", i, out.Pix[i], want[i])
		}
	}

	flat, _ := mustAugment(t, n, ndimage.Filled(7, 2, 2))
	if lo, hi := flat.MinMax(); lo != 0 || hi != 0 {
		t.Errorf("constant image should map to zero, got [%v, %v]", lo, hi)
	}
}

func TestPhotometric_IdentityCoords(t *testing.T) {
	b, _ := NewBrightness(10, true)
	pts := []augment.Point{{X: 1.5, Y: 2.5}}
	got, err := b.AugmentCoords(pts, 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != pts[0] {
		t.Errorf("got %v, want %v", got[0], pts[0])
	}
}
