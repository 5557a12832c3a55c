package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-augment/internal/augment"
)

func newListCmd(r *augment.Registry) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [class...]",
		Short: "List registered augmentors and their config fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := selectSpecs(r, args)
			if err != nil {
				return err
			}
			if asJSON {
				return writeSpecsJSON(cmd.OutOrStdout(), specs)
			}
			return writeSpecs(cmd.OutOrStdout(), specs)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schemas as JSON")
	return cmd
}

// selectSpecs returns the specs named in names, or all of them.
func selectSpecs(r *augment.Registry, names []string) ([]augment.Spec, error) {
	if len(names) == 0 {
		return r.Specs(), nil
	}
	specs := make([]augment.Spec, 0, len(names))
	for _, name := range names {
		spec, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", augment.ErrUnknownClass, name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func writeSpecs(w io.Writer, specs []augment.Spec) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, spec := range specs {
		fmt.Fprintf(tw, "%s\t%s\n", spec.Name, spec.Doc)
		for _, f := range spec.Schema {
			def := fmt.Sprintf("default %v", f.Default)
			if f.Required {
				def = "required"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.Kind, def)
		}
	}
	return tw.Flush()
}

type specJSON struct {
	Name   string         `json:"name"`
	Doc    string         `json:"doc,omitempty"`
	Fields augment.Schema `json:"fields"`
}

func writeSpecsJSON(w io.Writer, specs []augment.Spec) error {
	out := make([]specJSON, 0, len(specs))
	for _, spec := range specs {
		fields := spec.Schema
		if fields == nil {
			fields = augment.Schema{}
		}
		out = append(out, specJSON{Name: spec.Name, Doc: spec.Doc, Fields: fields})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
