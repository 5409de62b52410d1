// Package surface defines output rendering for furrow results.
// Implementations handle different output targets: terminal, JSON, Markdown.
package surface

import (
	"fmt"
	"io"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
)

// Renderer produces formatted output for each kind of result.
type Renderer interface {
	RenderCatalog(w io.Writer, cat *crop.Catalog, issues []crop.Issue) error
	RenderDiagnosis(w io.Writer, r *report.Diagnosis) error
	RenderCompanion(w io.Writer, r *report.Companion) error
	RenderSuccession(w io.Writer, r *report.Succession) error
	RenderComposition(w io.Writer, r *report.Composition) error
}

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// New returns the renderer for an output format.
func New(format string) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TerminalRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatMarkdown, "md":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
	}
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func zoneLabel(z *float64) string {
	if z == nil {
		return "unknown"
	}
	return fmt.Sprintf("%g", *z)
}

func seasonsLabel(seasons []crop.Season) string {
	if len(seasons) == 0 {
		return "-"
	}
	s := string(seasons[0])
	for _, x := range seasons[1:] {
		s += "," + string(x)
	}
	return s
}

func harvestLabel(days *int) string {
	if days == nil {
		return "-"
	}
	return fmt.Sprintf("%dd", *days)
}

func zonesLabel(c *crop.Crop) string {
	if c.HardinessZoneMin == nil && c.HardinessZoneMax == nil {
		return "-"
	}
	return zoneLabel(c.HardinessZoneMin) + "-" + zoneLabel(c.HardinessZoneMax)
}

// exclusionCounts tallies excluded crops per gate, in gate order.
func exclusionCounts(r *report.Succession) string {
	counts := map[string]int{}
	var order []string
	for _, e := range r.Excluded {
		if counts[e.Gate] == 0 {
			order = append(order, e.Gate)
		}
		counts[e.Gate]++
	}
	s := ""
	for i, g := range order {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %d", g, counts[g])
	}
	return s
}
