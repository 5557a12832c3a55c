// Package imgaug provides the built-in image augmentors.
//
// Geometric augmentors move pixels and implement coordinate mapping;
// photometric ones change values only and leave coordinates alone. The
// meta augmentors RandomApply, RandomChooseAug and RandomOrderAug compose
// other augmentors through the same two-phase protocol as the list.
//
// Augmentors that go through the image libraries (resizing, cropping,
// flipping, rotation, blur, contrast) quantize to 8 bits per channel, so
// normalizers belong at the end of a pipeline.
//
// Register adds every class to a registry; DefaultRegistry returns a shared
// one.
package imgaug
