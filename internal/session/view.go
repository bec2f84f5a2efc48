// README: Read models for renderers: entity detail panel and GeoJSON map layers.
package session

import (
	"strings"
	"unicode"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"tripmap/internal/geo"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/selection"
	"tripmap/internal/types"
)

var sectionTitles = map[string]string{
	"description":       "Description",
	"howToReach":        "How to Reach",
	"whatToExpect":      "What to Expect",
	"whatToEat":         "What to Eat",
	"whyGoThere":        "Why Go There",
	"expenses":          "Expenses",
	"bestDishes":        "Best Dishes",
	"thingsToBeAwareOf": "Things to Be Aware Of",
}

type Section struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Bullets bool     `json:"bullets"`
	Lines   []string `json:"lines"`
}

// DetailView is what the detail panel renders for one entity.
type DetailView struct {
	Entity             dataset.Entity   `json:"entity"`
	Category           dataset.Category `json:"category"`
	HomeBaseName       string           `json:"homeBaseName,omitempty"`
	DistanceFromHomeKm *float64         `json:"distanceFromHomeKm,omitempty"`
	Sections           []Section        `json:"sections"`
}

func (s *Session) Detail(id types.ID) (DetailView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.ctrl.Dataset()
	if d == nil {
		return DetailView{}, ErrNoDataset
	}
	e, ok := d.Entity(id)
	if !ok {
		return DetailView{}, eris.Wrapf(selection.ErrUnknownEntity, "entity %q", id)
	}

	v := DetailView{
		Entity:   e,
		Category: d.Categories.Resolve(e.Category),
		Sections: sections(e.Details),
	}
	if hb, ok := s.homes.Current(); ok {
		km := geo.DistanceKm(hb.Location, e.Location)
		v.DistanceFromHomeKm = &km
		v.HomeBaseName = hb.Name
	}
	return v, nil
}

// sections renders every detail; the description stays a paragraph while other text
// fields with several sentences become bullets.
func sections(details dataset.Details) []Section {
	out := make([]Section, 0, len(details))
	for _, item := range details {
		sec := Section{Key: item.Key, Title: sectionTitle(item.Key)}
		switch {
		case item.Value.IsBullets():
			sec.Bullets = true
			sec.Lines = item.Value.Lines()
		case item.Key == "description":
			sec.Lines = []string{item.Value.Text}
		default:
			sec.Lines = item.Value.Lines()
			sec.Bullets = len(sec.Lines) > 1
		}
		out = append(out, sec)
	}
	return out
}

// sectionTitle turns an unknown camelCase key into words.
func sectionTitle(key string) string {
	if t, ok := sectionTitles[key]; ok {
		return t
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Feature roles in the map collection.
const (
	RoleMarker   = "marker"
	RoleNearby   = "nearby"
	RoleHomeBase = "home_base"
	RoleRoute    = "route"
)

// Map renders the visible layers as one GeoJSON FeatureCollection: markers of visible
// kinds, the proximity subset, the home base and the route, with a bbox around them.
func (s *Session) Map() (*geojson.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.ctrl.Dataset()
	if d == nil {
		return nil, ErrNoDataset
	}
	vis := s.ctrl.Visibility()
	selected, hasSelection := s.ctrl.Selected()

	fc := geojson.NewFeatureCollection()
	var points []types.Point
	for _, kind := range []dataset.Kind{dataset.KindPlace, dataset.KindRestaurant} {
		if !vis.Visible(kind) {
			continue
		}
		for _, e := range d.Collection(kind) {
			fc.Append(entityFeature(d, e, RoleMarker, hasSelection && e.ID == selected.ID))
			points = append(points, e.Location)
		}
	}
	for _, m := range s.ctrl.Proximity() {
		f := entityFeature(d, m.Entity, RoleNearby, false)
		f.Properties["distanceKm"] = m.DistanceKm
		fc.Append(f)
		points = append(points, m.Entity.Location)
	}
	if hb, ok := s.homes.Current(); ok {
		points = append(points, hb.Location)
		fc.Append(geo.PointFeature(hb.Location, map[string]any{
			"role":        RoleHomeBase,
			"name":        hb.Name,
			"color":       hb.Color,
			"description": hb.Description,
			"source":      string(hb.Source),
		}))
	}
	if r, ok := s.ctrl.Route(); ok {
		fc.Append(geo.LineFeature(r.From, r.To, map[string]any{
			"role":       RoleRoute,
			"entityId":   string(r.EntityID),
			"color":      r.Color,
			"distanceKm": r.DistanceKm,
		}))
	}
	// bbox covers every drawn point.
	if b, ok := geo.Bounds(points); ok {
		fc.BBox = geojson.NewBBox(b)
	}
	return fc, nil
}

func entityFeature(d *dataset.Dataset, e dataset.Entity, role string, selected bool) *geojson.Feature {
	cat := d.Categories.Resolve(e.Category)
	return geo.PointFeature(e.Location, map[string]any{
		"role":     role,
		"id":       string(e.ID),
		"name":     e.Name,
		"kind":     string(e.Kind),
		"category": cat.Key,
		"color":    d.Color(e),
		"icon":     cat.Icon,
		"selected": selected,
	})
}
