package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/surface"
)

func newCropsCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crops",
		Short: "Inspect, validate and export the crop catalog",
	}
	cmd.AddCommand(newCropsListCmd(g), newCropsValidateCmd(g), newCropsExportCmd(g))
	return cmd
}

func newCropsListCmd(g *globalOpts) *cobra.Command {
	var (
		category  string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the crops in the active catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := e.planner.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" {
				filtered := &crop.Catalog{Version: cat.Version}
				for _, c := range cat.Crops {
					if string(c.Category) == category {
						filtered.Crops = append(filtered.Crops, c)
					}
				}
				cat = filtered
			}
			r, err := surface.New(outputFmt)
			if err != nil {
				return err
			}
			return r.RenderCatalog(cmd.OutOrStdout(), cat, nil)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list crops in this category")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}

func newCropsValidateCmd(g *globalOpts) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file for authoring problems",
		Long: `Validates the given catalog file, or the --catalog file, or the built-in
catalog. Exits non-zero when the catalog has errors; warnings are reported
but do not fail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.catalogPath
			if len(args) == 1 {
				path = args[0]
			}
			cat := crop.Builtin()
			if path != "" {
				loaded, err := crop.LoadCatalog(path)
				if err != nil {
					return err
				}
				cat = loaded
			}

			issues := crop.Validate(cat)
			r, err := surface.New(outputFmt)
			if err != nil {
				return err
			}
			if err := r.RenderCatalog(cmd.OutOrStdout(), cat, issues); err != nil {
				return err
			}
			if crop.HasErrors(issues) {
				return errors.New("catalog has errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}

func newCropsExportCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the active catalog to a YAML or JSON file",
		Long: `Writes the active catalog to a file, as a starting point for a custom
catalog. The format follows the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := e.planner.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := crop.SaveCatalog(args[0], cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d crops to %s\n", len(cat.Crops), args[0])
			return nil
		},
	}
}
