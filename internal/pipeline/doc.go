// Package pipeline reads and writes augmentation pipeline files and runs a
// pipeline over an image, an optional paired mask and point annotations.
//
// A pipeline file holds an optional seed and the serialized augmentors in
// application order:
//
//	seed: 42
//	augmentors:
//	  - class_name: Flip
//	    config: {horiz: true, prob: 0.5}
//	  - class_name: RandomCrop
//	    config: {crop_shape: [224, 224]}
//
// The format is chosen by file extension: .yaml/.yml, .toml or .json.
package pipeline
