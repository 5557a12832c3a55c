package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/ndimage"
)

// ListName is the class name of List in the serialized form.
const ListName = "AugmentorList"

// List applies a sequence of augmentors in order. Its parameters are a
// []Params holding one entry per child, positionally aligned.
//
// List keeps the augmentors it was given; changing a child after
// construction changes the list.
type List struct {
	augs []ImageAugmentor
}

// NewList composes augs into a single augmentor.
func NewList(augs ...ImageAugmentor) *List {
	return &List{augs: augs}
}

// Name implements Augmentor.
func (l *List) Name() string { return ListName }

// Len returns the number of children.
func (l *List) Len() int { return len(l.augs) }

// Augmentors returns the children in application order.
func (l *List) Augmentors() []ImageAugmentor { return l.augs }

// AugmentParams always fails: each child's parameters depend on the image
// produced by the children before it.
func (l *List) AugmentParams(*ndimage.Array) (Params, error) {
	return nil, fmt.Errorf("%w: cannot compute the parameters of an %s without running the augmentation; use AugmentReturnParams",
		ErrUnsupported, ListName)
}

// AugmentReturnParams runs every child in order on img and returns the final
// image with the per-child parameters.
func (l *List) AugmentReturnParams(img *ndimage.Array) (*ndimage.Array, Params, error) {
	if err := checkRank(img); err != nil {
		return nil, nil, err
	}

	params := make([]Params, 0, len(l.augs))
	for i, a := range l.augs {
		var (
			p   Params
			err error
		)
		img, p, err = AugmentReturnParams(a, img)
		if err != nil {
			return nil, nil, fmt.Errorf("augmentor %d: %w", i, err)
		}
		params = append(params, p)
	}
	return img, params, nil
}

// AugmentWithParams replays previously returned parameters on img.
func (l *List) AugmentWithParams(img *ndimage.Array, p Params) (*ndimage.Array, error) {
	if err := checkRank(img); err != nil {
		return nil, err
	}
	params, err := l.split(p)
	if err != nil {
		return nil, err
	}

	for i, a := range l.augs {
		img, err = a.AugmentWithParams(img, params[i])
		if err != nil {
			return nil, fmt.Errorf("augmentor %d (%s): %w", i, a.Name(), err)
		}
	}
	return img, nil
}

// AugmentMaskWithParams replays previously returned parameters on a label
// mask, skipping the children that only change pixel values.
func (l *List) AugmentMaskWithParams(mask *ndimage.Array, p Params) (*ndimage.Array, error) {
	if err := checkRank(mask); err != nil {
		return nil, err
	}
	params, err := l.split(p)
	if err != nil {
		return nil, err
	}

	for i, a := range l.augs {
		mask, err = ReplayOnMask(a, mask, params[i])
		if err != nil {
			return nil, fmt.Errorf("augmentor %d (%s): %w", i, a.Name(), err)
		}
	}
	return mask, nil
}

// AugmentCoords maps coords through every child with its saved parameters.
func (l *List) AugmentCoords(coords []Point, p Params) ([]Point, error) {
	params, err := l.split(p)
	if err != nil {
		return nil, err
	}

	for i, a := range l.augs {
		coords, err = a.AugmentCoords(coords, params[i])
		if err != nil {
			return nil, fmt.Errorf("augmentor %d (%s): %w", i, a.Name(), err)
		}
	}
	return coords, nil
}

// ResetState resets every child. The list has no generator of its own.
func (l *List) ResetState() {
	for _, a := range l.augs {
		a.ResetState()
	}
}

// Config returns the serialized children.
func (l *List) Config() Config {
	items := make([]any, len(l.augs))
	for i, a := range l.augs {
		items[i] = Serialize(a)
	}
	return Config{"augmentors": items}
}

func (l *List) String() string { return Describe(l) }

func (l *List) split(p Params) ([]Params, error) {
	params, ok := p.([]Params)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants []Params, got %T", ErrParamsMismatch, ListName, p)
	}
	if len(params) != len(l.augs) {
		return nil, fmt.Errorf("%w: %d params for %d augmentors", ErrParamsMismatch, len(params), len(l.augs))
	}
	return params, nil
}

func checkRank(img *ndimage.Array) error {
	if img == nil {
		return fmt.Errorf("%w: got nil image", ErrDimension)
	}
	if !img.IsImage() {
		return fmt.Errorf("%w: got shape %v", ErrDimension, img.Shape)
	}
	return nil
}

// ListSpec returns the spec for List. Children are rebuilt through r, so
// the spec must be registered in the same registry it refers to.
func ListSpec(r *Registry) Spec {
	return Spec{
		Name: ListName,
		Doc:  "Applies a sequence of augmentors in order.",
		Schema: Schema{
			{Name: "augmentors", Kind: KindAugmentors, Default: []any{}, Doc: "serialized children in application order"},
		},
		New: func(cfg Config) (Augmentor, error) {
			children, err := DeserializeAll(r, cfg.Augmentors("augmentors"))
			if err != nil {
				return nil, err
			}
			return NewList(children...), nil
		},
	}
}

// DeserializeAll builds each serialized augmentor in items.
func DeserializeAll(r *Registry, items []map[string]any) ([]ImageAugmentor, error) {
	out := make([]ImageAugmentor, 0, len(items))
	for i, item := range items {
		a, err := r.DeserializeImage(item)
		if err != nil {
			return nil, fmt.Errorf("augmentor %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}
