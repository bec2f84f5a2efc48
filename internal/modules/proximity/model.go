// README: Nearby policy and ranked match types.
package proximity

import (
	"tripmap/internal/modules/dataset"
)

const (
	DefaultRadiusKm = 1.0
	DefaultMaxCount = 3
)

// Policy bounds a nearby query. It is configuration; every call may override it.
type Policy struct {
	RadiusKm float64 `json:"radiusKm"`
	MaxCount int     `json:"maxCount"`
}

func DefaultPolicy() Policy {
	return Policy{RadiusKm: DefaultRadiusKm, MaxCount: DefaultMaxCount}
}

// WithDefaults fills non-positive fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	if p.RadiusKm <= 0 {
		p.RadiusKm = DefaultRadiusKm
	}
	if p.MaxCount <= 0 {
		p.MaxCount = DefaultMaxCount
	}
	return p
}

type Match struct {
	Entity     dataset.Entity `json:"entity"`
	DistanceKm float64        `json:"distanceKm"`
}

// IDs lists the entity ids of ms in rank order.
func IDs(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m.Entity.ID)
	}
	return out
}
