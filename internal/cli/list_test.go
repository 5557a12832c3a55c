package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/imgaug"
)

func TestListCommand(t *testing.T) {
	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, name := range imgaug.DefaultRegistry().Names() {
		if !strings.Contains(out, name) {
			t.Errorf("list output is missing %s", name)
		}
	}
	if !strings.Contains(out, "crop_shape") || !strings.Contains(out, "required") {
		t.Error("list output should show fields and required markers")
	}
}

func TestListCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "list", "--json", "Flip", "Rotation")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var specs []struct {
		Name   string `json:"name"`
		Fields []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out), &specs); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if len(specs) != 2 || specs[0].Name != "Flip" || specs[1].Name != "Rotation" {
		t.Fatalf("got %+v", specs)
	}
	if len(specs[1].Fields) != 1 || specs[1].Fields[0].Name != "max_deg" {
		t.Errorf("Rotation fields: got %+v", specs[1].Fields)
	}
}

func TestListCommand_UnknownClass(t *testing.T) {
	_, _, err := execute(t, "list", "Sharpen")
	if !errors.Is(err, augment.ErrUnknownClass) {
		t.Errorf("got %v, want ErrUnknownClass", err)
	}
}
