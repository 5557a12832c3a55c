package imgaug

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

func fieldFor(name string, img *ndimage.Array, p augment.Params) ([]float32, error) {
	field, err := paramsAs[[]float32](name, p)
	if err != nil {
		return nil, err
	}
	if len(field) != img.Len() {
		return nil, fmt.Errorf("%w: %s params hold %d values for an image of %d", augment.ErrParamsMismatch, name, len(field), img.Len())
	}
	return field, nil
}

// GaussianNoise adds zero-mean Gaussian noise with standard deviation sigma.
// The parameters are the noise field itself, so replay reproduces it
// exactly on any array of the same size.
type GaussianNoise struct {
	augment.Base
	pixelOnly
	sigma float64
	clip  bool
}

// NewGaussianNoise creates a GaussianNoise.
func NewGaussianNoise(sigma float64, clip bool) (*GaussianNoise, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("sigma must be non-negative, got %v", sigma)
	}
	n := &GaussianNoise{sigma: sigma, clip: clip}
	n.ResetState()
	return n, nil
}

func (n *GaussianNoise) Name() string { return "GaussianNoise" }

func (n *GaussianNoise) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(n.Name(), img); err != nil {
		return nil, err
	}
	field := make([]float32, img.Len())
	for i := range field {
		field[i] = float32(n.Rng().NormFloat64() * n.sigma)
	}
	return field, nil
}

func (n *GaussianNoise) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	field, err := fieldFor(n.Name(), img, p)
	if err != nil {
		return nil, err
	}
	out := img.Clone()
	for i := range out.Pix {
		out.Pix[i] += field[i]
	}
	if n.clip {
		out.Clamp(0, 255)
	}
	return out, nil
}

func (n *GaussianNoise) Config() augment.Config {
	return augment.Config{"sigma": n.sigma, "clip": n.clip}
}

func (n *GaussianNoise) String() string { return augment.Describe(n) }

// SaltPepperNoise sets random elements to 255 (salt) or 0 (pepper).
type SaltPepperNoise struct {
	augment.Base
	pixelOnly
	white, black float64
}

// NewSaltPepperNoise creates a SaltPepperNoise. Each element turns white
// with probability white and black with probability black.
func NewSaltPepperNoise(white, black float64) (*SaltPepperNoise, error) {
	if white < 0 || black < 0 || white+black > 1 {
		return nil, fmt.Errorf("probabilities must be non-negative and sum to at most 1, got %v and %v", white, black)
	}
	n := &SaltPepperNoise{white: white, black: black}
	n.ResetState()
	return n, nil
}

func (n *SaltPepperNoise) Name() string { return "SaltPepperNoise" }

func (n *SaltPepperNoise) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if err := requireImage(n.Name(), img); err != nil {
		return nil, err
	}
	field := make([]float32, img.Len())
	for i := range field {
		field[i] = n.Rng().Float32()
	}
	return field, nil
}

func (n *SaltPepperNoise) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	field, err := fieldFor(n.Name(), img, p)
	if err != nil {
		return nil, err
	}
	out := img.Clone()
	white, black := float32(n.white), float32(1-n.black)
	for i, u := range field {
		switch {
		case u < white:
			out.Pix[i] = 255
		case u >= black:
			out.Pix[i] = 0
		}
	}
	return out, nil
}

func (n *SaltPepperNoise) Config() augment.Config {
	return augment.Config{"white_prob": n.white, "black_prob": n.black}
}

func (n *SaltPepperNoise) String() string { return augment.Describe(n) }

var noiseSpecs = []augment.Spec{
	{
		Name: "GaussianNoise",
		Doc:  "Add Gaussian noise with standard deviation sigma.",
		Schema: augment.Schema{
			{Name: "sigma", Kind: augment.KindFloat, Default: 1.0},
			{Name: "clip", Kind: augment.KindBool, Default: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewGaussianNoise(cfg.Float("sigma"), cfg.Bool("clip"))
		},
	},
	{
		Name: "SaltPepperNoise",
		Doc:  "Set random elements to white or black.",
		Schema: augment.Schema{
			{Name: "white_prob", Kind: augment.KindFloat, Default: 0.05},
			{Name: "black_prob", Kind: augment.KindFloat, Default: 0.05},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewSaltPepperNoise(cfg.Float("white_prob"), cfg.Float("black_prob"))
		},
	},
}
