package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/pipeline"
)

func newDescribeCmd(r *augment.Registry) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Build a pipeline file and print its description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.Load(path, r)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("Loaded pipeline", "path", path, "augmentors", p.List.Len())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}

	cmd.Flags().StringVarP(&path, "pipeline", "p", "", "pipeline file (.yaml, .toml or .json)")
	cmd.MarkFlagRequired("pipeline")
	return cmd
}

func newConvertCmd(r *augment.Registry) *cobra.Command {
	var (
		in     string
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite a pipeline file in another format",
		Long: `Convert builds the pipeline and writes its canonical form. The output
format follows the extension of --output; with "-" the pipeline is written to
stdout in --format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.Load(in, r)
			if err != nil {
				return err
			}

			if out == "-" {
				data, err := pipeline.Encode(p, pipeline.Format(format))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := pipeline.Save(out, p); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Wrote pipeline", "path", out, "augmentors", p.List.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "pipeline", "p", "", "input pipeline file")
	cmd.Flags().StringVarP(&out, "output", "o", "", `output file, or "-" for stdout`)
	cmd.Flags().StringVar(&format, "format", string(pipeline.YAML), "stdout format: yaml, toml or json")
	cmd.MarkFlagRequired("pipeline")
	cmd.MarkFlagRequired("output")
	return cmd
}
