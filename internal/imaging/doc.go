// Package imaging moves images between files and augmentor arrays.
//
// It loads PNG, JPEG and GIF files through a concurrent-safe ImageCache,
// converts them to ndimage arrays for augmentation, and writes results back
// either to disk (Save) or as inline base64 PNGs for the MCP server
// (EncodePNGBase64). DrawPoints overlays point annotations so that
// coordinate mapping can be checked by eye.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. A point (x, y) lies in
// pixel (floor(x), floor(y)), so the centre of pixel (i, j) is
// (i+0.5, j+0.5).
//
// # Precision
//
// Arrays hold float32 values but files and encoded PNGs are 8 bits per
// channel: values are rounded and clamped to [0, 255] on the way out.
package imaging
