package augment

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(addSpec); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	spec, ok := r.Lookup("AddAug")
	if !ok {
		t.Fatal("Lookup did not find registered class")
	}
	if spec.Name != "AddAug" {
		t.Errorf("Lookup: got %s, want AddAug", spec.Name)
	}
	if _, ok := r.Lookup("ScaleAug"); ok {
		t.Error("Lookup found an unregistered class")
	}
}

func TestRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"empty name", Spec{New: addSpec.New}, ErrNotAugmentor},
		{"nil constructor", Spec{Name: "Nothing"}, ErrNotAugmentor},
		{"duplicate field", Spec{
			Name:   "Dup",
			Schema: Schema{{Name: "a", Kind: KindInt, Default: 1}, {Name: "a", Kind: KindInt, Default: 2}},
			New:    addSpec.New,
		}, ErrNotAugmentor},
		{"bad default", Spec{
			Name:   "BadDefault",
			Schema: Schema{{Name: "a", Kind: KindInt, Default: "one"}},
			New:    addSpec.New,
		}, ErrNotAugmentor},
		{"name mismatch", Spec{
			Name:   "NotAddAug",
			Schema: addSpec.Schema,
			New:    addSpec.New,
		}, ErrNotAugmentor},
		{"nil instance", Spec{
			Name: "Nil",
			New:  func(Config) (Augmentor, error) { return nil, nil },
		}, ErrNotAugmentor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if len(r.Names()) != 0 {
				t.Error("invalid spec should not be registered")
			}
		})
	}
}

func TestRegistry_CollisionIsError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(addSpec); err != nil {
		t.Fatal(err)
	}
	err := r.Register(addSpec)
	if !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("got %v, want ErrDuplicateClass", err)
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister should panic on a collision")
		}
	}()
	r := NewRegistry()
	r.MustRegister(addSpec, addSpec)
}

func TestRegistry_Names(t *testing.T) {
	r := newTestRegistry()
	want := []string{"AddAug", ListName, "ScaleAug"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names: got %v, want %v", got, want)
	}
	specs := r.Specs()
	if len(specs) != 3 || specs[0].Name != "AddAug" {
		t.Errorf("Specs: got %d specs", len(specs))
	}
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := newTestRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := r.Deserialize(Serialize(newAddAug(0, 1))); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFromConfig(t *testing.T) {
	a, err := FromConfig(scaleSpec, Config{"factor": 3})
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if a.Config().Float("factor") != 3 {
		t.Errorf("factor: got %v, want 3", a.Config()["factor"])
	}

	if _, err := FromConfig(Spec{Name: "X"}, Config{}); !errors.Is(err, ErrNotAugmentor) {
		t.Errorf("nil constructor: got %v, want ErrNotAugmentor", err)
	}
}
