// Package ndimage provides the dense pixel array that augmentors operate on.
//
// An Array is a row-major float32 buffer with an explicit shape. Images are
// stored as rank 2 (height × width, single channel) or rank 3
// (height × width × channels) arrays, with nominal pixel values in [0, 255].
// Other ranks are representable so callers can validate dimensionality
// themselves.
//
// # Coordinate System
//
// Pixel addressing follows the image convention used across this module:
//   - Row (y) 0 is the top of the image
//   - Column (x) 0 is the left edge
//   - Channel order is R, G, B[, A] for color images
//
// # Conversion
//
// FromImage and FromGray convert any image.Image into an Array; ToImage
// converts back to *image.Gray or *image.NRGBA, rounding and clamping values
// to the 8-bit range. FromImageLike converts a library result back into the
// layout of a reference Array, which is how augmentors round-trip through
// the image libraries without changing the caller's channel layout.
package ndimage
