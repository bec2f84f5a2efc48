// README: Radius filter, stable distance ranking and result cap over candidate entities.
package proximity

import (
	"tripmap/internal/geo"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/types"
)

// Nearby returns the candidates within maxDistanceKm of ref, nearest first, capped at
// maxCount. Equal distances keep input order. The result is empty, never nil, when
// nothing qualifies.
func Nearby(ref types.Point, candidates []dataset.Entity, maxDistanceKm float64, maxCount int) []Match {
	out := make([]Match, 0, len(candidates))
	if maxCount <= 0 {
		return out
	}
	for _, c := range candidates {
		d := geo.DistanceKm(ref, c.Location)
		if d <= maxDistanceKm {
			out = append(out, Match{Entity: c, DistanceKm: d})
		}
	}

	// Cap only after ranking.
	geo.SortByDistance(out, func(m Match) float64 { return m.DistanceKm })
	if len(out) > maxCount {
		out = out[:maxCount]
	}
	return out
}

// Nearby applies the policy to candidates.
func (p Policy) Nearby(ref types.Point, candidates []dataset.Entity) []Match {
	return Nearby(ref, candidates, p.RadiusKm, p.MaxCount)
}
