package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
	"github.com/furrow/furrow/pkg/soil"
)

// MarkdownRenderer writes results as Markdown, for sharing plans in
// notes and issue trackers.
type MarkdownRenderer struct{}

// Ranked candidates listed in a succession summary.
const maxMarkdownCandidates = 5

func statusIcon(d *soil.Diagnosis) string {
	switch {
	case d.Status == soil.StatusOptimal:
		return ":green_circle:"
	case d.Severe:
		return ":red_circle:"
	default:
		return ":orange_circle:"
	}
}

func (r *MarkdownRenderer) RenderCatalog(w io.Writer, cat *crop.Catalog, issues []crop.Issue) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Crop catalog %s\n\n", cat.Version)
	sb.WriteString("| ID | Name | Category | Seasons | Harvest | Zones |\n|----|------|----------|---------|---------|-------|\n")
	for i := range cat.Crops {
		c := &cat.Crops[i]
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			c.ID, c.Name, c.Category, seasonsLabel(c.PlantingSeason), harvestLabel(c.HarvestDays), zonesLabel(c))
	}
	if len(issues) > 0 {
		sb.WriteString("\n### Issues\n\n")
		for _, is := range issues {
			fmt.Fprintf(&sb, "- %s\n", is.String())
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) RenderDiagnosis(w io.Writer, d *report.Diagnosis) error {
	var sb strings.Builder
	sb.WriteString("## Soil diagnosis\n\n")

	sb.WriteString("| Nutrient | Value | Optimal | Status |\n|----------|-------|---------|--------|\n")
	for i := range d.Diagnoses {
		dg := &d.Diagnoses[i]
		fmt.Fprintf(&sb, "| %s | %g %s | %g-%g | %s %s |\n",
			dg.Label, dg.Value, dg.Unit, dg.Min, dg.Max, statusIcon(dg), dg.Status)
	}
	sb.WriteString("\n")

	if len(d.Dosages) > 0 {
		fmt.Fprintf(&sb, "### Amendments for %g sq ft\n\n", d.AreaSqFt)
		for _, ds := range d.Dosages {
			fmt.Fprintf(&sb, "- **%s**: %.2f lb", ds.Name, ds.Pounds)
			if ds.Note != "" {
				fmt.Fprintf(&sb, " (%s)", ds.Note)
			}
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) RenderCompanion(w io.Writer, c *report.Companion) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s: %s\n\n", c.Candidate.Name, signed(c.Result.Total))
	for _, p := range c.Result.Pairs {
		fmt.Fprintf(&sb, "- **%s** %s (%s)\n", p.OtherID, signed(p.Total), p.Verdict)
		for _, f := range p.Factors {
			if f.Points != 0 {
				fmt.Fprintf(&sb, "  - %s: %s\n", f.Name, f.Summary)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) RenderSuccession(w io.Writer, s *report.Succession) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## After %s (%s, zone %s)\n\n", s.Finished.Name, s.AsOf.Format("January 2006"), zoneLabel(s.HardinessZone))

	for i, rc := range s.Ranked {
		if i == maxMarkdownCandidates {
			fmt.Fprintf(&sb, "_... and %d more candidates_\n", len(s.Ranked)-maxMarkdownCandidates)
			break
		}
		fmt.Fprintf(&sb, "%d. **%s** (%s)\n", i+1, rc.Crop.Name, signed(rc.Score))
		for _, reason := range rc.Reasons {
			fmt.Fprintf(&sb, "   - %s\n", reason.Summary)
		}
	}
	if len(s.Excluded) > 0 {
		fmt.Fprintf(&sb, "\n_Excluded: %s_\n", exclusionCounts(s))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) RenderComposition(w io.Writer, c *report.Composition) error {
	var sb strings.Builder
	sb.WriteString("## Bed composition\n\n| Slot | Crop | Score |\n|------|------|-------|\n")
	for _, p := range c.Placements {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", p.Slot, p.Crop.Name, signed(p.Score))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
