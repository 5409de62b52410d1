package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/furrow/furrow/internal/planner"
	"github.com/furrow/furrow/pkg/soil"
	"github.com/furrow/furrow/pkg/surface"
)

// parseReadings turns nutrient=value pairs into readings. Nutrient names
// accept the usual aliases ("nitrogen", "n", "pH").
func parseReadings(pairs []string) ([]soil.Reading, error) {
	readings := make([]soil.Reading, 0, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("reading %q: want nutrient=value", pair)
		}
		n, ok := soil.ParseNutrient(name)
		if !ok {
			return nil, fmt.Errorf("reading %q: unknown nutrient %q", pair, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", pair, err)
		}
		readings = append(readings, soil.Reading{Nutrient: n, Value: soil.Measured(v)})
	}
	return readings, nil
}

func newDiagnoseCmd(g *globalOpts) *cobra.Command {
	var (
		readings  []string
		area      float64
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:     "diagnose",
		Short:   "Diagnose a soil test and size the amendments",
		Example: `  furrow diagnose --reading ph=5.2 --reading n=20 --reading k=150 --area 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseReadings(readings)
			if err != nil {
				return err
			}
			if len(parsed) == 0 {
				return fmt.Errorf("at least one --reading is required")
			}
			r, err := surface.New(outputFmt)
			if err != nil {
				return err
			}
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}
			return r.RenderDiagnosis(cmd.OutOrStdout(), e.planner.Diagnose(parsed, area))
		},
	}

	cmd.Flags().StringArrayVarP(&readings, "reading", "r", nil, "Soil reading as nutrient=value (repeatable)")
	cmd.Flags().Float64Var(&area, "area", 0, "Bed area in square feet, for amendment amounts")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}

func newCompanionCmd(g *globalOpts) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:     "companion <candidate> [placed...]",
		Short:   "Score a crop against the crops already in a bed",
		Example: `  furrow companion basil tomato sweet-pepper`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := surface.New(outputFmt)
			if err != nil {
				return err
			}
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := e.planner.ScoreCrops(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			return r.RenderCompanion(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}

type successionOpts struct {
	bedmates  []string
	zone      float64
	asOf      string
	limit     int
	all       bool
	outputFmt string
}

func newSuccessionCmd(g *globalOpts) *cobra.Command {
	var opts successionOpts

	cmd := &cobra.Command{
		Use:     "succession <finished-crop>",
		Short:   "Suggest what to plant where a crop has finished",
		Example: `  furrow succession tomato --bedmate onion --zone 7 --as-of 2026-04-15`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := surface.New(opts.outputFmt)
			if err != nil {
				return err
			}
			asOf, err := parseDate(opts.asOf)
			if err != nil {
				return err
			}
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}

			q := planner.SuccessionQuery{
				FinishedID: args[0],
				BedmateIDs: opts.bedmates,
				AsOf:       asOf,
				Limit:      opts.limit,
			}
			if cmd.Flags().Changed("zone") {
				q.HardinessZone = &opts.zone
			}
			if opts.all {
				q.Limit = -1
			}
			rep, err := e.planner.Suggest(cmd.Context(), q)
			if err != nil {
				return err
			}
			return r.RenderSuccession(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().StringSliceVar(&opts.bedmates, "bedmate", nil, "Crops staying in the bed (repeatable or comma separated)")
	cmd.Flags().Float64Var(&opts.zone, "zone", 0, "USDA hardiness zone (default: config default_hardiness_zone, else unchecked)")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "Planting date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum suggestions (default: config default_limit)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Show every qualifying crop")
	cmd.Flags().StringVarP(&opts.outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}

func newComposeCmd(g *globalOpts) *cobra.Command {
	var (
		slots     int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "compose [seed...]",
		Short: "Fill a bed with compatible crops",
		Long: `Starting from the seed crops, picks the best scoring catalog crop for each
free slot. Crops antagonistic to anything already chosen are never picked.`,
		Example: `  furrow compose tomato --slots 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := surface.New(outputFmt)
			if err != nil {
				return err
			}
			e, err := g.newEnv(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := e.planner.Compose(cmd.Context(), args, slots)
			if err != nil {
				return err
			}
			return r.RenderComposition(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().IntVar(&slots, "slots", 0, "Slots to fill (default: config composition_slots)")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json or markdown")
	return cmd
}
