// README: Dataset domain model: city config, categories, home base, places and restaurants.
package dataset

import (
	"strings"

	"tripmap/internal/types"
)

type Kind string

const (
	KindPlace      Kind = "place"
	KindRestaurant Kind = "restaurant"
)

// Complement returns the kind shown as a proximity subset when k is selected.
func (k Kind) Complement() Kind {
	if k == KindPlace {
		return KindRestaurant
	}
	return KindPlace
}

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPlace, "places", "location", "locations":
		return KindPlace, true
	case KindRestaurant, "restaurants":
		return KindRestaurant, true
	}
	return "", false
}

const (
	DefaultCategoryKey = "default"
	DefaultHomeColor   = "#10B981"
	DefaultRouteColor  = "#4a6fa5"
	defaultZoom        = 12
)

type Category struct {
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// Categories always carries a DefaultCategoryKey entry once normalized.
type Categories map[string]Category

// Resolve looks up key and falls back to the default category for unknown keys.
func (c Categories) Resolve(key string) Category {
	if cat, ok := c[strings.ToLower(key)]; ok {
		return cat
	}
	return c[DefaultCategoryKey]
}

type HomeBase struct {
	Name        string      `json:"name"`
	Location    types.Point `json:"location"`
	Color       string      `json:"color"`
	Description string      `json:"description,omitempty"`
}

type CityConfig struct {
	Name        string      `json:"name"`
	Center      types.Point `json:"center"`
	DefaultZoom int         `json:"defaultZoom"`
	// HomeBase is the home base bundled with a static city configuration.
	HomeBase *HomeBase `json:"homeBase,omitempty"`
}

// Entity is a place or restaurant.
type Entity struct {
	ID         types.ID    `json:"id"`
	Name       string      `json:"name"`
	Kind       Kind        `json:"kind"`
	Category   string      `json:"category"`
	Location   types.Point `json:"location"`
	Notes      string      `json:"notes,omitempty"`
	Popularity *float64    `json:"popularity,omitempty"`
	Details    Details     `json:"details"`
}

type Dataset struct {
	Title       string     `json:"title"`
	City        CityConfig `json:"cityConfig"`
	HomeBase    *HomeBase  `json:"homeBase,omitempty"`
	Categories  Categories `json:"categories"`
	Places      []Entity   `json:"places"`
	Restaurants []Entity   `json:"restaurants"`
}

// Collection returns the entities of the given kind.
func (d *Dataset) Collection(k Kind) []Entity {
	if d == nil {
		return nil
	}
	if k == KindRestaurant {
		return d.Restaurants
	}
	return d.Places
}

// Entity finds an entity by id across both collections.
func (d *Dataset) Entity(id types.ID) (Entity, bool) {
	if d == nil {
		return Entity{}, false
	}
	for _, e := range d.Places {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range d.Restaurants {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// Color returns the entity's category colour, or the default route colour.
func (d *Dataset) Color(e Entity) string {
	if d == nil {
		return DefaultRouteColor
	}
	if c := d.Categories.Resolve(e.Category).Color; c != "" {
		return c
	}
	return DefaultRouteColor
}

// Clone returns a deep copy so callers can hand datasets to sessions independently.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	if d.City.HomeBase != nil {
		hb := *d.City.HomeBase
		out.City.HomeBase = &hb
	}
	if d.HomeBase != nil {
		hb := *d.HomeBase
		out.HomeBase = &hb
	}
	out.Categories = make(Categories, len(d.Categories))
	for k, v := range d.Categories {
		out.Categories[k] = v
	}
	out.Places = cloneEntities(d.Places)
	out.Restaurants = cloneEntities(d.Restaurants)
	return &out
}

func cloneEntities(in []Entity) []Entity {
	out := make([]Entity, len(in))
	for i, e := range in {
		if e.Popularity != nil {
			p := *e.Popularity
			e.Popularity = &p
		}
		e.Details = e.Details.clone()
		out[i] = e
	}
	return out
}
