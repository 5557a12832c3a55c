package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/imaging"
	"github.com/ironsheep/image-augment/internal/ndimage"
	"github.com/ironsheep/image-augment/internal/pipeline"
	"github.com/ironsheep/image-augment/internal/rng"
)

type runOptions struct {
	pipeline   string
	input      string
	output     string
	mask       string
	maskOut    string
	points     string
	pointsOut  string
	seed       uint64
	repeat     int
	gray       bool
	drawPoints bool
}

func newRunCmd(r *augment.Registry) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Augment an image with a pipeline",
		Long: `Run samples an augmentation for the input image and writes the result.

A paired mask given with --mask receives exactly the same augmentation. Points
read from --points (a JSON array of {"x": .., "y": ..}) are mapped through it
and written to --points-out, or to stdout. With --repeat N, N independent
samples are written as <name>_0<ext> ... <name>_N-1<ext>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, r, &opts, cmd.Flags().Changed("seed"))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.pipeline, "pipeline", "p", "", "pipeline file (.yaml, .toml or .json)")
	f.StringVarP(&opts.input, "input", "i", "", "input image")
	f.StringVarP(&opts.output, "output", "o", "", "output image; the extension picks the format")
	f.StringVar(&opts.mask, "mask", "", "paired mask, loaded as a single channel")
	f.StringVar(&opts.maskOut, "mask-out", "", "output path for the augmented mask")
	f.StringVar(&opts.points, "points", "", "JSON file of points to map")
	f.StringVar(&opts.pointsOut, "points-out", "", "output JSON file for mapped points (default stdout)")
	f.Uint64Var(&opts.seed, "seed", 0, "fix the random generators, overriding the pipeline seed")
	f.IntVar(&opts.repeat, "repeat", 1, "number of samples to write")
	f.BoolVar(&opts.gray, "gray", false, "load the input as a single channel")
	f.BoolVar(&opts.drawPoints, "draw-points", false, "mark the mapped points on the output image")
	cmd.MarkFlagRequired("pipeline")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runPipeline(cmd *cobra.Command, r *augment.Registry, opts *runOptions, seeded bool) error {
	logger := loggerFromContext(cmd.Context())

	if opts.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", opts.repeat)
	}
	if opts.mask != "" && opts.maskOut == "" {
		return fmt.Errorf("--mask needs --mask-out")
	}

	p, err := pipeline.Load(opts.pipeline, r)
	if err != nil {
		return err
	}
	if seeded {
		rng.Fix(opts.seed)
		p.List.ResetState()
		p.Seed = &opts.seed
	}
	if p.Seed != nil {
		defer rng.Unfix()
	}
	logger.Debug("Loaded pipeline", "pipeline", p)

	cache := imaging.NewImageCache()
	img, err := imaging.LoadArray(cache, opts.input, opts.gray)
	if err != nil {
		return err
	}
	maskArr, err := loadMask(cache, opts.mask)
	if err != nil {
		return err
	}
	points, err := readPoints(opts.points)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var mapped [][]augment.Point
	for i := 0; i < opts.repeat; i++ {
		res, err := p.Run(img, maskArr, points)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		out := res.Image
		if opts.drawPoints && len(res.Points) > 0 {
			if out, err = imaging.DrawPoints(out, res.Points, 3, "#FF0000", true); err != nil {
				return err
			}
		}
		path := samplePath(opts.output, i, opts.repeat)
		if err := imaging.Save(path, out); err != nil {
			return err
		}
		logger.Debug("Wrote sample", "path", path, "shape", out.Shape)

		if res.Mask != nil {
			if err := imaging.Save(samplePath(opts.maskOut, i, opts.repeat), res.Mask); err != nil {
				return err
			}
		}
		if points != nil {
			mapped = append(mapped, res.Points)
		}
	}

	if points != nil {
		if err := writePoints(cmd.OutOrStdout(), opts.pointsOut, mapped); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Wrote %d sample(s)", opts.repeat))
	return nil
}

func loadMask(cache *imaging.ImageCache, path string) (*ndimage.Array, error) {
	if path == "" {
		return nil, nil
	}
	m, err := imaging.LoadArray(cache, path, true)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	return m, nil
}

// samplePath numbers path when more than one sample is written.
func samplePath(path string, i, n int) string {
	if n == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), i, ext)
}

func readPoints(path string) ([]augment.Point, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	points := []augment.Point{}
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("points %s: %w", path, err)
	}
	return points, nil
}

// writePoints writes one point list per sample. A single sample is written
// as a bare list.
func writePoints(stdout io.Writer, path string, mapped [][]augment.Point) error {
	var v any = mapped
	if len(mapped) == 1 {
		v = mapped[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
