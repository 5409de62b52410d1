package surface

import (
	"encoding/json"
	"io"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *JSONRenderer) RenderCatalog(w io.Writer, cat *crop.Catalog, issues []crop.Issue) error {
	if issues == nil {
		issues = []crop.Issue{}
	}
	return encode(w, struct {
		*crop.Catalog
		Issues []crop.Issue `json:"issues"`
	}{cat, issues})
}

func (r *JSONRenderer) RenderDiagnosis(w io.Writer, d *report.Diagnosis) error {
	return encode(w, d)
}

func (r *JSONRenderer) RenderCompanion(w io.Writer, c *report.Companion) error {
	return encode(w, c)
}

func (r *JSONRenderer) RenderSuccession(w io.Writer, s *report.Succession) error {
	return encode(w, s)
}

func (r *JSONRenderer) RenderComposition(w io.Writer, c *report.Composition) error {
	return encode(w, c)
}
