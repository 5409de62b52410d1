package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
	"github.com/furrow/furrow/pkg/soil"
	"github.com/furrow/furrow/pkg/succession"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Excluded crops listed before the rest are summarized.
const maxExclusions = 5

func statusColor(d *soil.Diagnosis) string {
	switch {
	case d.Status == soil.StatusOptimal:
		return colorGreen
	case d.Severe:
		return colorRed
	default:
		return colorYellow
	}
}

func scoreColor(n int) string {
	switch {
	case n > 0:
		return colorGreen
	case n < 0:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) RenderCatalog(w io.Writer, cat *crop.Catalog, issues []crop.Issue) error {
	version := cat.Version
	if version == "" {
		version = "unversioned"
	}
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Crop catalog %s: %d crops", version, len(cat.Crops))))

	fmt.Fprintf(w, "  %-16s %-20s %-19s %-13s %-20s %-7s %s\n",
		"ID", "NAME", "CATEGORY", "HABIT", "SEASONS", "HARVEST", "ZONES")
	for i := range cat.Crops {
		c := &cat.Crops[i]
		fmt.Fprintf(w, "  %-16s %-20s %-19s %-13s %-20s %-7s %s\n",
			c.ID, c.Name, c.Category, c.GrowthHabit,
			seasonsLabel(c.PlantingSeason), harvestLabel(c.HarvestDays), zonesLabel(c))
	}
	fmt.Fprintln(w)

	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues.")
		return nil
	}
	fmt.Fprintln(w, "Issues:")
	for _, is := range issues {
		color := colorYellow
		if is.Level == crop.IssueError {
			color = colorRed
		}
		fmt.Fprintf(w, "  %s %s\n", colored("●", color), is.String())
	}
	return nil
}

func (r *TerminalRenderer) RenderDiagnosis(w io.Writer, d *report.Diagnosis) error {
	header := "Soil diagnosis"
	if d.BedID != "" {
		header += " for bed " + d.BedID
	}
	if d.TakenAt != nil {
		header += fmt.Sprintf(" (tested %s)", d.TakenAt.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "%s\n\n", bold(header))

	if len(d.Diagnoses) == 0 {
		fmt.Fprintln(w, "No readings to diagnose.")
		return nil
	}

	for i := range d.Diagnoses {
		dg := &d.Diagnoses[i]
		status := string(dg.Status)
		if dg.Severe {
			status = "severely " + status
		}
		fmt.Fprintf(w, "  %-20s %8g %-6s %s  %s\n",
			bold(dg.Label), dg.Value, dg.Unit,
			dim(fmt.Sprintf("optimal %g-%g", dg.Min, dg.Max)),
			colored(status, statusColor(dg)))
		if dg.Status != soil.StatusOptimal {
			for _, line := range wrapText(dg.Recommendation, 70) {
				fmt.Fprintf(w, "      %s\n", dim(line))
			}
		}
	}
	fmt.Fprintln(w)

	if len(d.Dosages) == 0 {
		if d.AreaSqFt <= 0 && len(d.Deficient()) > 0 {
			fmt.Fprintln(w, "Give a bed area to size the amendments.")
		}
		return nil
	}

	fmt.Fprintf(w, "Amendments for %g sq ft:\n", d.AreaSqFt)
	for _, ds := range d.Dosages {
		nutrients := make([]string, 0, len(ds.Nutrients))
		for _, n := range ds.Nutrients {
			nutrients = append(nutrients, string(n))
		}
		fmt.Fprintf(w, "  • %-26s %7.2f lb  %s\n", ds.Name, ds.Pounds,
			dim(fmt.Sprintf("(%s, x%g)", strings.Join(nutrients, ", "), ds.Multiplier)))
		if ds.Note != "" {
			fmt.Fprintf(w, "    %s\n", dim(ds.Note))
		}
	}
	fmt.Fprintln(w)
	return nil
}

func (r *TerminalRenderer) RenderCompanion(w io.Writer, c *report.Companion) error {
	total := c.Result.Total
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("%s companion score: %s",
		c.Candidate.Name, colored(signed(total), scoreColor(total)))))

	if len(c.Result.Pairs) == 0 {
		fmt.Fprintln(w, "Nothing planted yet.")
		return nil
	}
	for _, p := range c.Result.Pairs {
		verdict := string(p.Verdict)
		if p.Antagonistic() {
			verdict = colored(verdict, colorRed)
		}
		fmt.Fprintf(w, "  %-16s %-12s %s\n", p.OtherID, verdict, colored(signed(p.Total), scoreColor(p.Total)))
		for _, f := range p.Factors {
			if f.Points == 0 {
				continue
			}
			fmt.Fprintf(w, "      (%s) %s %s\n", signed(f.Points), f.Name, dim(f.Summary))
		}
	}
	fmt.Fprintln(w)
	return nil
}

func (r *TerminalRenderer) RenderSuccession(w io.Writer, s *report.Succession) error {
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Succession after %s", s.Finished.Name)))
	fmt.Fprintf(w, "%s\n\n", dim(fmt.Sprintf("as of %s, zone %s, bedmates: %s",
		s.AsOf.Format("January 2006"), zoneLabel(s.HardinessZone), orNone(s.Bedmates))))

	if len(s.Ranked) == 0 {
		fmt.Fprintln(w, "No crops qualify.")
	}
	for i, rc := range s.Ranked {
		fmt.Fprintf(w, "  %2d. %-22s %s\n", i+1, bold(rc.Crop.Name), colored(signed(rc.Score), scoreColor(rc.Score)))
		for _, reason := range rc.Reasons {
			fmt.Fprintf(w, "        (%s) %s\n", signed(reason.Points), dim(reason.Summary))
		}
	}
	fmt.Fprintln(w)

	if len(s.Excluded) > 0 {
		fmt.Fprintf(w, "Excluded %d crops (%s)\n", len(s.Excluded), exclusionCounts(s))
		shown := 0
		for _, e := range s.Excluded {
			// Season misses are expected most of the year; list the rest.
			if e.Gate == succession.GateSeason {
				continue
			}
			if shown == maxExclusions {
				fmt.Fprintf(w, "  %s\n", dim("..."))
				break
			}
			fmt.Fprintf(w, "  %s %s: %s\n", colored("●", colorYellow), e.CropID, dim(e.Summary))
			shown++
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *TerminalRenderer) RenderComposition(w io.Writer, c *report.Composition) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Bed composition: %d slots, seeded with %s", c.Slots, orNone(c.Seed))))

	if len(c.Placements) == 0 {
		fmt.Fprintln(w, "No crop fits this bed.")
		return nil
	}
	for _, p := range c.Placements {
		fmt.Fprintf(w, "  slot %d  %-22s %s\n", p.Slot, bold(p.Crop.Name), colored(signed(p.Score), scoreColor(p.Score)))
	}
	if len(c.Placements) < c.Slots {
		fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("%d slots left open: no remaining crop is compatible", c.Slots-len(c.Placements))))
	}
	fmt.Fprintln(w)
	return nil
}

func orNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
