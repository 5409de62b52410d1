package companion

import "github.com/furrow/furrow/pkg/crop"

// Compose greedily grows a bed from seed. Each slot takes the catalog crop
// with the best score against everything already in the bed, skipping
// crops already present and crops antagonistic to any of them. Ties go to
// the crop listed first in the catalog. Composition stops early when no
// crop qualifies.
func (s *Scorer) Compose(seed []crop.Crop, catalog *crop.Catalog, slots int) []Placement {
	if slots <= 0 || catalog == nil {
		return nil
	}

	bed := append([]crop.Crop(nil), seed...)
	inBed := make(map[string]bool, len(bed)+slots)
	for _, c := range bed {
		inBed[c.ID] = true
	}

	var out []Placement
	for slot := 0; slot < slots; slot++ {
		best := -1
		var bestResult Result
		for i := range catalog.Crops {
			c := &catalog.Crops[i]
			if inBed[c.ID] {
				continue
			}
			if _, clash := s.AntagonistOf(c, bed); clash {
				continue
			}
			r := s.Evaluate(c, bed)
			if best < 0 || r.Total > bestResult.Total {
				best, bestResult = i, r
			}
		}
		if best < 0 {
			break
		}

		chosen := catalog.Crops[best]
		out = append(out, Placement{
			Slot:  slot + 1,
			Crop:  chosen,
			Score: bestResult.Total,
			Pairs: bestResult.Pairs,
		})
		bed = append(bed, chosen)
		inBed[chosen.ID] = true
	}
	return out
}
