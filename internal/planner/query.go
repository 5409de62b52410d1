package planner

import (
	"time"

	"github.com/furrow/furrow/pkg/crop"
)

// SuccessionQuery is a stateless succession request by crop ID.
type SuccessionQuery struct {
	FinishedID    string    `json:"finished_id"`
	BedmateIDs    []string  `json:"bedmate_ids,omitempty"`
	HardinessZone *float64  `json:"hardiness_zone,omitempty"`
	AsOf          time.Time `json:"as_of"`
	// Zero uses the configured default limit; negative returns everything.
	Limit int `json:"limit,omitempty"`
}

func ids(crops []crop.Crop) []string {
	out := make([]string, 0, len(crops))
	for i := range crops {
		out = append(out, crops[i].ID)
	}
	return out
}
