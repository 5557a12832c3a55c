// Package augment defines the augmentor protocol: how a randomized image
// transform computes its parameters, applies them, replays them, maps point
// annotations, and round-trips through a {class_name, config} description.
//
// # Two-phase Apply
//
// Every Augmentor splits its work into AugmentParams, which draws the random
// decision for an input, and AugmentWithParams, which applies a decision.
// Keeping the decision lets callers replay the exact same transform on a
// second input (a label mask, a depth map) and map point annotations with
// AugmentCoords:
//
//	out, params, err := augment.AugmentReturnParams(list, img)
//	mask, err = list.AugmentWithParams(mask, params)
//	pts, err = list.AugmentCoords(pts, params)
//
// Concrete augmentors embed Base, which supplies the per-instance random
// generator, a stateless default for AugmentParams and an identity default
// for AugmentCoords. Spatial augmentors that cannot map coordinates return
// ErrCoordsNotImplemented rather than the identity.
//
// # Composition
//
// List chains augmentors strictly in order. Each child computes its
// parameters against the output of the previous child, so a List cannot
// produce parameters without running the augmentation; its AugmentParams
// always fails with ErrUnsupported.
//
// # Serialization
//
// Serialize produces {"class_name": ..., "config": ...}. A Registry maps
// class names to a Spec holding the class schema and constructor, and
// Registry.Deserialize reverses Serialize. Schemas are declared explicitly
// per class; the random generator is never part of a config.
//
// # Thread Safety
//
// Augmentors hold no locks. Independent instances own independent random
// generators and may run on separate goroutines; a single instance must not
// be shared between goroutines. A Registry is safe for concurrent use.
package augment
