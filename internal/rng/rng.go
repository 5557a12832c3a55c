// Package rng hands out independent random number generators.
//
// Every augmentor owns its own generator so that instances never share a
// random stream. Get derives a seed from the identity of the requesting
// object, the process id and the wall clock. Fix replaces that derivation
// with a master stream started from one seed: every later Get draws its
// seed from the master, so instances still differ from each other while
// the whole run is reproducible.
package rng

import (
	"math/rand/v2"
	"os"
	"reflect"
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	fixed  *uint64
	master *rand.Rand
)

// Fix restarts the master stream from seed. Generators returned by Get
// after Fix are seeded from consecutive draws of the master. Calling Fix
// again with the same seed replays the same sequence of generators.
func Fix(seed uint64) {
	mu.Lock()
	fixed = &seed
	master = New(seed)
	mu.Unlock()
}

// Unfix restores identity-and-clock derived seeding.
func Unfix() {
	mu.Lock()
	fixed = nil
	master = nil
	mu.Unlock()
}

// Fixed returns the pinned seed, if any.
func Fixed() (uint64, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if fixed == nil {
		return 0, false
	}
	return *fixed, true
}

// Get returns a new generator for obj.
//
// Unless a seed is fixed, the seed is (address(obj) + pid + now) mod 2^32,
// so two live objects never start from the same derivation input. With a
// fixed seed the next value of the master stream is used instead.
func Get(obj any) *rand.Rand {
	mu.Lock()
	if master != nil {
		s := master.Uint64()
		mu.Unlock()
		return New(s)
	}
	mu.Unlock()
	return New(Seed(obj, time.Now()))
}

// Seed computes the derivation used by Get for obj at time now.
func Seed(obj any, now time.Time) uint64 {
	var addr uint64
	if v := reflect.ValueOf(obj); v.IsValid() {
		switch v.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
			addr = uint64(v.Pointer())
		}
	}
	stamp := uint64(now.UnixNano())
	return (addr + uint64(os.Getpid()) + stamp) % (1 << 32)
}

// New returns a PCG generator seeded from seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
