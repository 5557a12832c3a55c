package imgaug

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

// Clip limits values to [min, max].
type Clip struct {
	augment.Base
	pixelOnly
	lo, hi float64
}

// NewClip creates a Clip.
func NewClip(lo, hi float64) (*Clip, error) {
	if lo > hi {
		return nil, fmt.Errorf("min %v greater than max %v", lo, hi)
	}
	c := &Clip{lo: lo, hi: hi}
	c.ResetState()
	return c, nil
}

func (c *Clip) Name() string { return "Clip" }

func (c *Clip) AugmentWithParams(img *ndimage.Array, _ augment.Params) (*ndimage.Array, error) {
	if err := requireImage(c.Name(), img); err != nil {
		return nil, err
	}
	return img.Clone().Clamp(float32(c.lo), float32(c.hi)), nil
}

func (c *Clip) Config() augment.Config { return augment.Config{"min": c.lo, "max": c.hi} }

func (c *Clip) String() string { return augment.Describe(c) }

// channelGroups returns, for each group normalized together, the element
// indices belonging to it.
func channelGroups(img *ndimage.Array, allChannel bool) [][]int {
	ch := img.Channels()
	if allChannel || ch <= 1 {
		idx := make([]int, img.Len())
		for i := range idx {
			idx[i] = i
		}
		return [][]int{idx}
	}
	groups := make([][]int, ch)
	for i := 0; i < img.Len(); i++ {
		groups[i%ch] = append(groups[i%ch], i)
	}
	return groups
}

// MinMaxNormalize linearly maps the value range of the image onto
// [min, max], over all channels at once or per channel.
type MinMaxNormalize struct {
	augment.Base
	pixelOnly
	lo, hi     float64
	allChannel bool
}

// NewMinMaxNormalize creates a MinMaxNormalize.
func NewMinMaxNormalize(lo, hi float64, allChannel bool) (*MinMaxNormalize, error) {
	if lo > hi {
		return nil, fmt.Errorf("min %v greater than max %v", lo, hi)
	}
	n := &MinMaxNormalize{lo: lo, hi: hi, allChannel: allChannel}
	n.ResetState()
	return n, nil
}

func (n *MinMaxNormalize) Name() string { return "MinMaxNormalize" }

func (n *MinMaxNormalize) AugmentWithParams(img *ndimage.Array, _ augment.Params) (*ndimage.Array, error) {
	if err := requireImage(n.Name(), img); err != nil {
		return nil, err
	}
	out := img.Clone()
	for _, group := range channelGroups(img, n.allChannel) {
		if len(group) == 0 {
			continue
		}
		lo, hi := float64(out.Pix[group[0]]), float64(out.Pix[group[0]])
		for _, i := range group {
			lo = math.Min(lo, float64(out.Pix[i]))
			hi = math.Max(hi, float64(out.Pix[i]))
		}
		scale := 0.0
		if hi > lo {
			scale = (n.hi - n.lo) / (hi - lo)
		}
		for _, i := range group {
			out.Pix[i] = float32(n.lo + (float64(out.Pix[i])-lo)*scale)
		}
	}
	return out, nil
}

func (n *MinMaxNormalize) Config() augment.Config {
	return augment.Config{"min": n.lo, "max": n.hi, "all_channel": n.allChannel}
}

func (n *MinMaxNormalize) String() string { return augment.Describe(n) }

// MeanStdNormalize subtracts the mean and divides by the standard deviation,
// over all channels at once or per channel. The deviation is bounded below
// by 1/sqrt(N) so constant images map to zero.
type MeanStdNormalize struct {
	augment.Base
	pixelOnly
	allChannel bool
}

// NewMeanStdNormalize creates a MeanStdNormalize.
func NewMeanStdNormalize(allChannel bool) *MeanStdNormalize {
	n := &MeanStdNormalize{allChannel: allChannel}
	n.ResetState()
	return n
}

func (n *MeanStdNormalize) Name() string { return "MeanStdNormalize" }

func (n *MeanStdNormalize) AugmentWithParams(img *ndimage.Array, _ augment.Params) (*ndimage.Array, error) {
	if err := requireImage(n.Name(), img); err != nil {
		return nil, err
	}
	out := img.Clone()
	for _, group := range channelGroups(img, n.allChannel) {
		if len(group) == 0 {
			continue
		}
		var sum, sq float64
		for _, i := range group {
			v := float64(out.Pix[i])
			sum += v
			sq += v * v
		}
		cnt := float64(len(group))
		mean := sum / cnt
		std := math.Sqrt(math.Max(0, sq/cnt-mean*mean))
		std = math.Max(std, 1/math.Sqrt(cnt))
		for _, i := range group {
			out.Pix[i] = float32((float64(out.Pix[i]) - mean) / std)
		}
	}
	return out, nil
}

func (n *MeanStdNormalize) Config() augment.Config {
	return augment.Config{"all_channel": n.allChannel}
}

func (n *MeanStdNormalize) String() string { return augment.Describe(n) }

var normalizeSpecs = []augment.Spec{
	{
		Name: "Clip",
		Doc:  "Clip values to [min, max].",
		Schema: augment.Schema{
			{Name: "min", Kind: augment.KindFloat, Default: 0.0},
			{Name: "max", Kind: augment.KindFloat, Default: 255.0},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewClip(cfg.Float("min"), cfg.Float("max"))
		},
	},
	{
		Name: "MinMaxNormalize",
		Doc:  "Map the value range onto [min, max].",
		Schema: augment.Schema{
			{Name: "min", Kind: augment.KindFloat, Default: 0.0},
			{Name: "max", Kind: augment.KindFloat, Default: 255.0},
			{Name: "all_channel", Kind: augment.KindBool, Default: true},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewMinMaxNormalize(cfg.Float("min"), cfg.Float("max"), cfg.Bool("all_channel"))
		},
	},
	{
		Name: "MeanStdNormalize",
		Doc:  "Subtract the mean and divide by the standard deviation.",
		Schema: augment.Schema{
			{Name: "all_channel", Kind: augment.KindBool, Default: false},
		},
		New: func(cfg augment.Config) (augment.Augmentor, error) {
			return NewMeanStdNormalize(cfg.Bool("all_channel")), nil
		},
	},
}
