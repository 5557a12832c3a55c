package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-augment/internal/imgaug"
	"github.com/ironsheep/image-augment/internal/pipeline"
)

const flipCropYAML = `augmentors:
  - class_name: Flip
    config: {horiz: true, prob: 1.0}
  - class_name: CenterCrop
    config: {crop_shape: [4, 6]}
`

// writePipeline writes a pipeline file into a temp dir and returns its path.
func writePipeline(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDescribeCommand(t *testing.T) {
	path := writePipeline(t, "p.yaml", flipCropYAML)

	out, _, err := execute(t, "describe", "-p", path)
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	for _, want := range []string{"Flip", "CenterCrop", "crop_shape"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDescribeCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing flag", []string{"describe"}},
		{"missing file", []string{"describe", "-p", "/nonexistent/p.yaml"}},
		{"unknown class", []string{"describe", "-p", writePipeline(t, "bad.yaml", "augmentors:\n  - class_name: Sharpen\n    config: {}\n")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConvertCommand(t *testing.T) {
	in := writePipeline(t, "p.yaml", flipCropYAML)
	r := imgaug.DefaultRegistry()
	want, err := pipeline.Load(in, r)
	if err != nil {
		t.Fatal(err)
	}

	for _, ext := range []string{".toml", ".json", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out"+ext)
			if _, _, err := execute(t, "convert", "-p", in, "-o", out); err != nil {
				t.Fatalf("convert failed: %v", err)
			}
			got, err := pipeline.Load(out, r)
			if err != nil {
				t.Fatalf("converted file does not load: %v", err)
			}
			if got.String() != want.String() {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestConvertCommand_Stdout(t *testing.T) {
	in := writePipeline(t, "p.yaml", flipCropYAML)

	out, _, err := execute(t, "convert", "-p", in, "-o", "-", "--format", "json")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(out, `"class_name": "CenterCrop"`) {
		t.Errorf("unexpected output %q", out)
	}

	if _, _, err := execute(t, "convert", "-p", in, "-o", "-", "--format", "ini"); err == nil {
		t.Error("unknown stdout format should fail")
	}
}
