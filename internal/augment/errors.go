package augment

import "errors"

// Sentinel errors for the augmentation protocol. Callers classify failures
// with errors.Is; every error returned by this package wraps one of these.
var (
	// ErrFormat reports a serialized form that is not a mapping holding
	// both "class_name" and "config".
	ErrFormat = errors.New("improper augmentor config format")

	// ErrUnknownClass reports a class name missing from the registry.
	ErrUnknownClass = errors.New("unknown augmentor class")

	// ErrNotAugmentor reports a registry entry or constructor that cannot
	// produce an augmentor.
	ErrNotAugmentor = errors.New("not a valid augmentor")

	// ErrConstruction reports a config whose keys or values do not match the
	// class schema.
	ErrConstruction = errors.New("cannot construct augmentor from config")

	// ErrDuplicateClass reports a second registration under an existing name.
	ErrDuplicateClass = errors.New("augmentor class already registered")

	// ErrUnsupported reports an operation an augmentor never performs, such as
	// computing List parameters without applying them.
	ErrUnsupported = errors.New("unsupported augmentor operation")

	// ErrDimension reports an image whose rank is not 2 or 3.
	ErrDimension = errors.New("image must have 2 or 3 dimensions")

	// ErrCoordsNotImplemented reports a spatial augmentor that cannot map
	// coordinates.
	ErrCoordsNotImplemented = errors.New("coordinate transform not implemented")

	// ErrParamsMismatch reports replay params that do not fit the augmentor.
	ErrParamsMismatch = errors.New("augment params do not match augmentor")
)
