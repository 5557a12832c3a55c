package imgaug

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/ndimage"
)

type applyParams struct {
	apply bool
	inner augment.Params
}

// RandomApply runs its child with probability prob and passes the image
// through otherwise.
type RandomApply struct {
	augment.Base
	aug  augment.ImageAugmentor
	prob float64
}

// NewRandomApply wraps aug.
func NewRandomApply(aug augment.ImageAugmentor, prob float64) (*RandomApply, error) {
	if aug == nil {
		return nil, fmt.Errorf("RandomApply needs an augmentor")
	}
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("prob must be in [0, 1], got %v", prob)
	}
	r := &RandomApply{aug: aug, prob: prob}
	r.Base.ResetState()
	return r, nil
}

func (r *RandomApply) Name() string { return "RandomApply" }

// AugmentParams draws the coin and, when it lands, the child's parameters.
// It fails for children that cannot compute parameters in isolation.
func (r *RandomApply) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	if r.Rand(1) >= r.prob {
		return applyParams{}, nil
	}
	inner, err := r.aug.AugmentParams(img)
	if err != nil {
		return nil, err
	}
	return applyParams{apply: true, inner: inner}, nil
}

func (r *RandomApply) AugmentReturnParams(img *ndimage.Array) (*ndimage.Array, augment.Params, error) {
	if err := requireImage(r.Name(), img); err != nil {
		return nil, nil, err
	}
	if r.Rand(1) >= r.prob {
		return img, applyParams{}, nil
	}
	out, inner, err := augment.AugmentReturnParams(r.aug, img)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.Name(), err)
	}
	return out, applyParams{apply: true, inner: inner}, nil
}

func (r *RandomApply) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	ap, err := paramsAs[applyParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	if !ap.apply {
		return img, nil
	}
	return r.aug.AugmentWithParams(img, ap.inner)
}

func (r *RandomApply) AugmentMaskWithParams(mask *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	ap, err := paramsAs[applyParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	if !ap.apply {
		return mask, nil
	}
	return augment.ReplayOnMask(r.aug, mask, ap.inner)
}

func (r *RandomApply) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	ap, err := paramsAs[applyParams](r.Name(), p)
	if err != nil {
		return nil, err
	}
	if !ap.apply {
		return coords, nil
	}
	return r.aug.AugmentCoords(coords, ap.inner)
}

func (r *RandomApply) ResetState() {
	r.Base.ResetState()
	r.aug.ResetState()
}

func (r *RandomApply) Config() augment.Config {
	return augment.Config{"aug": augment.Serialize(r.aug), "prob": r.prob}
}

func (r *RandomApply) String() string { return augment.Describe(r) }

type chooseParams struct {
	index int
	inner augment.Params
}

// RandomChooseAug runs exactly one of its children, picked uniformly or by
// the given weights.
type RandomChooseAug struct {
	augment.Base
	augs    []augment.ImageAugmentor
	weights []float64
}

// NewRandomChooseAug creates a RandomChooseAug. weights may be empty for a
// uniform choice; otherwise it needs one non-negative entry per child and a
// positive sum.
func NewRandomChooseAug(augs []augment.ImageAugmentor, weights []float64) (*RandomChooseAug, error) {
	if len(augs) == 0 {
		return nil, fmt.Errorf("RandomChooseAug needs at least one augmentor")
	}
	if len(weights) > 0 {
		if len(weights) != len(augs) {
			return nil, fmt.Errorf("got %d weights for %d augmentors", len(weights), len(augs))
		}
		var sum float64
		for _, w := range weights {
			if w < 0 {
				return nil, fmt.Errorf("negative weight %v", w)
			}
			sum += w
		}
		if sum <= 0 {
			return nil, fmt.Errorf("weights sum to zero")
		}
	}
	c := &RandomChooseAug{augs: augs, weights: append([]float64(nil), weights...)}
	c.Base.ResetState()
	return c, nil
}

func (c *RandomChooseAug) Name() string { return "RandomChooseAug" }

func (c *RandomChooseAug) pick() int {
	if len(c.weights) == 0 {
		return c.Rng().IntN(len(c.augs))
	}
	var total float64
	for _, w := range c.weights {
		total += w
	}
	u := c.Rand(total)
	for i, w := range c.weights {
		if u < w {
			return i
		}
		u -= w
	}
	return len(c.augs) - 1
}

func (c *RandomChooseAug) AugmentParams(img *ndimage.Array) (augment.Params, error) {
	i := c.pick()
	inner, err := c.augs[i].AugmentParams(img)
	if err != nil {
		return nil, err
	}
	return chooseParams{index: i, inner: inner}, nil
}

func (c *RandomChooseAug) AugmentReturnParams(img *ndimage.Array) (*ndimage.Array, augment.Params, error) {
	if err := requireImage(c.Name(), img); err != nil {
		return nil, nil, err
	}
	i := c.pick()
	out, inner, err := augment.AugmentReturnParams(c.augs[i], img)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return out, chooseParams{index: i, inner: inner}, nil
}

func (c *RandomChooseAug) chosen(p augment.Params) (chooseParams, error) {
	cp, err := paramsAs[chooseParams](c.Name(), p)
	if err != nil {
		return cp, err
	}
	if cp.index < 0 || cp.index >= len(c.augs) {
		return cp, fmt.Errorf("%w: %s has no augmentor %d", augment.ErrParamsMismatch, c.Name(), cp.index)
	}
	return cp, nil
}

func (c *RandomChooseAug) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	cp, err := c.chosen(p)
	if err != nil {
		return nil, err
	}
	return c.augs[cp.index].AugmentWithParams(img, cp.inner)
}

func (c *RandomChooseAug) AugmentMaskWithParams(mask *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	cp, err := c.chosen(p)
	if err != nil {
		return nil, err
	}
	return augment.ReplayOnMask(c.augs[cp.index], mask, cp.inner)
}

func (c *RandomChooseAug) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	cp, err := c.chosen(p)
	if err != nil {
		return nil, err
	}
	return c.augs[cp.index].AugmentCoords(coords, cp.inner)
}

func (c *RandomChooseAug) ResetState() {
	c.Base.ResetState()
	for _, a := range c.augs {
		a.ResetState()
	}
}

func (c *RandomChooseAug) Config() augment.Config {
	return augment.Config{"augmentors": serializeAll(c.augs), "prob": append([]float64{}, c.weights...)}
}

func (c *RandomChooseAug) String() string { return augment.Describe(c) }

type orderParams struct {
	order []int
	inner []augment.Params // inner[k] belongs to augs[order[k]]
}

// RandomOrderAug runs all of its children in a random order.
type RandomOrderAug struct {
	augment.Base
	augs []augment.ImageAugmentor
}

// NewRandomOrderAug creates a RandomOrderAug.
func NewRandomOrderAug(augs []augment.ImageAugmentor) *RandomOrderAug {
	o := &RandomOrderAug{augs: augs}
	o.Base.ResetState()
	return o
}

func (o *RandomOrderAug) Name() string { return "RandomOrderAug" }

// AugmentParams fails like the list does: each child's parameters depend on
// the output of the child before it.
func (o *RandomOrderAug) AugmentParams(*ndimage.Array) (augment.Params, error) {
	return nil, fmt.Errorf("%w: cannot compute the parameters of a %s without running the augmentation; use AugmentReturnParams",
		augment.ErrUnsupported, o.Name())
}

func (o *RandomOrderAug) AugmentReturnParams(img *ndimage.Array) (*ndimage.Array, augment.Params, error) {
	if err := requireImage(o.Name(), img); err != nil {
		return nil, nil, err
	}
	p := orderParams{order: o.Rng().Perm(len(o.augs)), inner: make([]augment.Params, 0, len(o.augs))}
	for _, i := range p.order {
		var (
			inner augment.Params
			err   error
		)
		img, inner, err = augment.AugmentReturnParams(o.augs[i], img)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: augmentor %d: %w", o.Name(), i, err)
		}
		p.inner = append(p.inner, inner)
	}
	return img, p, nil
}

func (o *RandomOrderAug) ordered(p augment.Params) (orderParams, error) {
	op, err := paramsAs[orderParams](o.Name(), p)
	if err != nil {
		return op, err
	}
	if len(op.order) != len(o.augs) || len(op.inner) != len(o.augs) {
		return op, fmt.Errorf("%w: %s params for %d augmentors, have %d", augment.ErrParamsMismatch, o.Name(), len(op.order), len(o.augs))
	}
	return op, nil
}

func (o *RandomOrderAug) AugmentWithParams(img *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	op, err := o.ordered(p)
	if err != nil {
		return nil, err
	}
	for k, i := range op.order {
		if img, err = o.augs[i].AugmentWithParams(img, op.inner[k]); err != nil {
			return nil, fmt.Errorf("%s: augmentor %d: %w", o.Name(), i, err)
		}
	}
	return img, nil
}

func (o *RandomOrderAug) AugmentMaskWithParams(mask *ndimage.Array, p augment.Params) (*ndimage.Array, error) {
	op, err := o.ordered(p)
	if err != nil {
		return nil, err
	}
	for k, i := range op.order {
		if mask, err = augment.ReplayOnMask(o.augs[i], mask, op.inner[k]); err != nil {
			return nil, fmt.Errorf("%s: augmentor %d: %w", o.Name(), i, err)
		}
	}
	return mask, nil
}

func (o *RandomOrderAug) AugmentCoords(coords []augment.Point, p augment.Params) ([]augment.Point, error) {
	op, err := o.ordered(p)
	if err != nil {
		return nil, err
	}
	for k, i := range op.order {
		if coords, err = o.augs[i].AugmentCoords(coords, op.inner[k]); err != nil {
			return nil, fmt.Errorf("%s: augmentor %d: %w", o.Name(), i, err)
		}
	}
	return coords, nil
}

func (o *RandomOrderAug) ResetState() {
	o.Base.ResetState()
	for _, a := range o.augs {
		a.ResetState()
	}
}

func (o *RandomOrderAug) Config() augment.Config {
	return augment.Config{"augmentors": serializeAll(o.augs)}
}

func (o *RandomOrderAug) String() string { return augment.Describe(o) }

func serializeAll(augs []augment.ImageAugmentor) []any {
	out := make([]any, len(augs))
	for i, a := range augs {
		out[i] = augment.Serialize(a)
	}
	return out
}

// metaSpecs returns the specs of the composing augmentors. Their children
// are rebuilt through r.
func metaSpecs(r *augment.Registry) []augment.Spec {
	return []augment.Spec{
		{
			Name: "RandomApply",
			Doc:  "Apply aug with probability prob.",
			Schema: augment.Schema{
				{Name: "aug", Kind: augment.KindAugmentor, Required: true},
				{Name: "prob", Kind: augment.KindFloat, Default: 0.5},
			},
			New: func(cfg augment.Config) (augment.Augmentor, error) {
				aug, err := r.DeserializeImage(cfg.Augmentor("aug"))
				if err != nil {
					return nil, err
				}
				return NewRandomApply(aug, cfg.Float("prob"))
			},
		},
		{
			Name: "RandomChooseAug",
			Doc:  "Apply one of augmentors, chosen uniformly or by prob weights.",
			Schema: augment.Schema{
				{Name: "augmentors", Kind: augment.KindAugmentors, Required: true},
				{Name: "prob", Kind: augment.KindFloatList, Default: []float64{}},
			},
			New: func(cfg augment.Config) (augment.Augmentor, error) {
				augs, err := augment.DeserializeAll(r, cfg.Augmentors("augmentors"))
				if err != nil {
					return nil, err
				}
				return NewRandomChooseAug(augs, cfg.Floats("prob"))
			},
		},
		{
			Name: "RandomOrderAug",
			Doc:  "Apply all augmentors in a random order.",
			Schema: augment.Schema{
				{Name: "augmentors", Kind: augment.KindAugmentors, Default: []any{}},
			},
			New: func(cfg augment.Config) (augment.Augmentor, error) {
				augs, err := augment.DeserializeAll(r, cfg.Augmentors("augmentors"))
				if err != nil {
					return nil, err
				}
				return NewRandomOrderAug(augs), nil
			},
		},
	}
}
