// README: Boundary validation; turns a wire Plan into a Dataset or rejects it whole.
package dataset

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"tripmap/internal/types"
)

var defaultCategory = Category{Key: DefaultCategoryKey, Name: "Default", Color: "#6B7280"}

// Normalize validates p and converts it into a Dataset. Any violation rejects the
// whole plan with ErrMalformedResponse; no partial dataset is ever returned.
func Normalize(p *Plan) (*Dataset, error) {
	if p == nil {
		return nil, malformed("empty plan")
	}
	if p.CityConfig == nil {
		return nil, malformed("missing cityConfig")
	}
	if p.Places == nil || p.Restaurants == nil {
		return nil, malformed("missing places or restaurants")
	}

	city, err := normalizeCity(p.CityConfig)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		City:       city,
		Categories: normalizeCategories(p.Categories),
	}
	if p.HomeBase != nil {
		hb, err := normalizeHomeBase(p.HomeBase, "homebase")
		if err != nil {
			return nil, err
		}
		d.HomeBase = hb
	}

	seen := make(map[types.ID]Kind)
	if d.Places, err = normalizeEntities(p.Places, KindPlace, seen); err != nil {
		return nil, err
	}
	if d.Restaurants, err = normalizeEntities(p.Restaurants, KindRestaurant, seen); err != nil {
		return nil, err
	}
	return d, nil
}

func malformed(format string, args ...any) error {
	return eris.Wrapf(ErrMalformedResponse, format, args...)
}

func normalizeCity(w *WireCity) (CityConfig, error) {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return CityConfig{}, malformed("cityConfig.name is empty")
	}
	if w.Center == nil {
		return CityConfig{}, malformed("cityConfig.center is missing")
	}
	if !w.Center.Valid() {
		return CityConfig{}, malformed("cityConfig.center %s out of range", w.Center)
	}
	city := CityConfig{
		Name:        name,
		Center:      *w.Center,
		DefaultZoom: w.DefaultZoom,
	}
	if city.DefaultZoom <= 0 {
		city.DefaultZoom = defaultZoom
	}
	if w.HomeBase != nil {
		hb, err := normalizeHomeBase(w.HomeBase, "cityConfig.homeBase")
		if err != nil {
			return CityConfig{}, err
		}
		city.HomeBase = hb
	}
	return city, nil
}

func normalizeHomeBase(w *WireHomeBase, field string) (*HomeBase, error) {
	if w.Lat == nil || w.Lng == nil {
		return nil, malformed("%s is missing coordinates", field)
	}
	loc := types.Point{Lat: *w.Lat, Lng: *w.Lng}
	if !loc.Valid() {
		return nil, malformed("%s location %s out of range", field, loc)
	}
	hb := &HomeBase{
		Name:        strings.TrimSpace(w.Name),
		Location:    loc,
		Color:       strings.TrimSpace(w.Color),
		Description: strings.TrimSpace(w.Description),
	}
	if hb.Name == "" {
		hb.Name = "Home Base"
	}
	if hb.Color == "" {
		hb.Color = DefaultHomeColor
	}
	return hb, nil
}

func normalizeCategories(in map[string]WireCategory) Categories {
	out := make(Categories, len(in)+1)
	for k, c := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		out[key] = Category{Key: key, Name: c.Name, Color: c.Color, Icon: c.Icon}
	}
	if _, ok := out[DefaultCategoryKey]; !ok {
		out[DefaultCategoryKey] = defaultCategory
	}
	return out
}

func normalizeEntities(in []WireEntity, kind Kind, seen map[types.ID]Kind) ([]Entity, error) {
	out := make([]Entity, 0, len(in))
	for i, w := range in {
		field := fmt.Sprintf("%ss[%d]", kind, i)
		id := types.ID(w.ID)
		if id == "" {
			return nil, malformed("%s.id is empty", field)
		}
		if prev, dup := seen[id]; dup {
			return nil, malformed("%s.id %q collides with a %s", field, id, prev)
		}
		seen[id] = kind

		name := strings.TrimSpace(w.Name)
		if name == "" {
			return nil, malformed("%s.name is empty", field)
		}
		if w.Lat == nil || w.Lng == nil {
			return nil, malformed("%s (%s) is missing coordinates", field, id)
		}
		loc := types.Point{Lat: *w.Lat, Lng: *w.Lng}
		if !loc.Valid() {
			return nil, malformed("%s (%s) location %s out of range", field, id, loc)
		}

		out = append(out, Entity{
			ID:         id,
			Name:       name,
			Kind:       kind,
			Category:   CategoryKey(w.Type),
			Location:   loc,
			Notes:      strings.TrimSpace(w.Notes),
			Popularity: w.Popularity,
			Details:    orderDetails(w.Details),
		})
	}
	return out, nil
}

// CategoryKey resolves a type string such as "place.landmark" to "landmark".
// An empty type maps to the default category.
func CategoryKey(typ string) string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	if typ == "" {
		return DefaultCategoryKey
	}
	return typ
}
