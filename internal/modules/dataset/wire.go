// README: Wire shape of a travel plan (generation response and bundled YAML) and its codecs.
package dataset

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"tripmap/internal/types"
)

// Plan is the JSON/YAML shape exchanged with the generation service and stored in bundles.
// It is unvalidated; Normalize turns it into a Dataset.
type Plan struct {
	CityConfig  *WireCity               `json:"cityConfig" yaml:"cityConfig"`
	HomeBase    *WireHomeBase           `json:"homebase,omitempty" yaml:"homebase,omitempty"`
	Categories  map[string]WireCategory `json:"categories,omitempty" yaml:"categories,omitempty"`
	Places      []WireEntity            `json:"places" yaml:"places"`
	Restaurants []WireEntity            `json:"restaurants" yaml:"restaurants"`
}

type WireCity struct {
	Name        string        `json:"name" yaml:"name"`
	Center      *types.Point  `json:"center" yaml:"center"`
	DefaultZoom int           `json:"defaultZoom,omitempty" yaml:"defaultZoom,omitempty"`
	HomeBase    *WireHomeBase `json:"homeBase,omitempty" yaml:"homeBase,omitempty"`
}

type WireHomeBase struct {
	Name        string   `json:"name" yaml:"name"`
	Lat         *float64 `json:"lat" yaml:"lat"`
	Lng         *float64 `json:"lng" yaml:"lng"`
	Color       string   `json:"color,omitempty" yaml:"color,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

type WireCategory struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

type WireEntity struct {
	ID         wireID                `json:"id" yaml:"id"`
	Name       string                `json:"name" yaml:"name"`
	Type       string                `json:"type,omitempty" yaml:"type,omitempty"`
	Lat        *float64              `json:"lat" yaml:"lat"`
	Lng        *float64              `json:"lng" yaml:"lng"`
	Notes      string                `json:"notes,omitempty" yaml:"notes,omitempty"`
	Popularity *float64              `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Details    map[string]wireDetail `json:"details,omitempty" yaml:"details,omitempty"`
}

// wireID accepts both numeric and string ids; bundled data uses numbers for places.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = wireID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return eris.Wrap(err, "id must be a string or number")
	}
	*id = wireID(n.String())
	return nil
}

func (id *wireID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return eris.Errorf("line %d: id must be a scalar", node.Line)
	}
	*id = wireID(strings.TrimSpace(node.Value))
	return nil
}

// MarshalJSON keeps purely numeric ids numeric so a bundle round-trips unchanged.
func (id wireID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// wireDetail decodes a detail that is either a string or a list of strings.
type wireDetail struct {
	value DetailValue
}

func (d *wireDetail) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d.value = Text(strings.TrimSpace(s))
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return eris.Wrap(err, "detail must be a string or a list of strings")
	}
	d.value = Bullets(trimAll(list)...)
	return nil
}

func (d *wireDetail) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d.value = Text(strings.TrimSpace(node.Value))
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return eris.Wrapf(err, "line %d: detail list", node.Line)
		}
		d.value = Bullets(trimAll(list)...)
		return nil
	}
	return eris.Errorf("line %d: detail must be a string or a list of strings", node.Line)
}

func (d wireDetail) MarshalJSON() ([]byte, error) {
	return d.value.MarshalJSON()
}

func trimAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DecodePlanJSON parses a generation response body. Syntax errors are reported as
// ErrMalformedResponse.
func DecodePlanJSON(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode plan json: %v", err)
	}
	return &p, nil
}

// DecodePlanYAML parses a bundled dataset.
func DecodePlanYAML(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode plan yaml: %v", err)
	}
	return &p, nil
}

// ToPlan converts a normalized dataset back to its wire shape.
func (d *Dataset) ToPlan() *Plan {
	p := &Plan{
		CityConfig: &WireCity{
			Name:        d.City.Name,
			Center:      &types.Point{Lat: d.City.Center.Lat, Lng: d.City.Center.Lng},
			DefaultZoom: d.City.DefaultZoom,
			HomeBase:    wireHome(d.City.HomeBase),
		},
		HomeBase:    wireHome(d.HomeBase),
		Categories:  make(map[string]WireCategory, len(d.Categories)),
		Places:      wireEntities(d.Places),
		Restaurants: wireEntities(d.Restaurants),
	}
	for k, c := range d.Categories {
		p.Categories[k] = WireCategory{Name: c.Name, Color: c.Color, Icon: c.Icon}
	}
	return p
}

func wireHome(h *HomeBase) *WireHomeBase {
	if h == nil {
		return nil
	}
	lat, lng := h.Location.Lat, h.Location.Lng
	return &WireHomeBase{Name: h.Name, Lat: &lat, Lng: &lng, Color: h.Color, Description: h.Description}
}

func wireEntities(in []Entity) []WireEntity {
	out := make([]WireEntity, 0, len(in))
	for _, e := range in {
		lat, lng := e.Location.Lat, e.Location.Lng
		w := WireEntity{
			ID:         wireID(e.ID),
			Name:       e.Name,
			Type:       string(e.Kind) + "." + e.Category,
			Lat:        &lat,
			Lng:        &lng,
			Notes:      e.Notes,
			Popularity: e.Popularity,
		}
		if len(e.Details) > 0 {
			w.Details = make(map[string]wireDetail, len(e.Details))
			for _, item := range e.Details {
				w.Details[item.Key] = wireDetail{value: item.Value}
			}
		}
		out = append(out, w)
	}
	return out
}
