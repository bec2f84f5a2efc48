// README: Selection state, visibility flags and the render events the controller emits.
package selection

import (
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/types"
)

type State string

const (
	StateIdle           State = "idle"
	StateEntitySelected State = "entity_selected"
)

// Visibility holds the per-kind global marker visibility.
type Visibility struct {
	Places      bool `json:"places"`
	Restaurants bool `json:"restaurants"`
}

func DefaultVisibility() Visibility {
	return Visibility{Places: true, Restaurants: true}
}

func (v Visibility) Visible(k dataset.Kind) bool {
	if k == dataset.KindRestaurant {
		return v.Restaurants
	}
	return v.Places
}

func (v *Visibility) set(k dataset.Kind, on bool) {
	if k == dataset.KindRestaurant {
		v.Restaurants = on
		return
	}
	v.Places = on
}

// Route is the straight line from the home base to the selected entity.
type Route struct {
	EntityID   types.ID    `json:"entityId"`
	From       types.Point `json:"from"`
	To         types.Point `json:"to"`
	Color      string      `json:"color"`
	DistanceKm float64     `json:"distanceKm"`
}

type EventType string

const (
	EventSelected          EventType = "selected"
	EventDeselected        EventType = "deselected"
	EventRouteSet          EventType = "route_set"
	EventRouteCleared      EventType = "route_cleared"
	EventProximitySet      EventType = "proximity_set"
	EventProximityCleared  EventType = "proximity_cleared"
	EventVisibilityChanged EventType = "visibility_changed"
	EventHomeBaseChanged   EventType = "home_base_changed"
	EventDatasetLoaded     EventType = "dataset_loaded"
	EventViewChanged       EventType = "view_changed"
	EventHomePickerArmed   EventType = "home_picker_armed"
)

// Event is a render notification. Only the field matching Type is set.
type Event struct {
	Type       EventType          `json:"type"`
	Entity     *dataset.Entity    `json:"entity,omitempty"`
	Route      *Route             `json:"route,omitempty"`
	Matches    []proximity.Match  `json:"matches,omitempty"`
	Visibility *Visibility        `json:"visibility,omitempty"`
	HomeBase   *homebase.Resolved `json:"homeBase,omitempty"`
	View       *homebase.View     `json:"view,omitempty"`
	Dataset    *DatasetSummary    `json:"dataset,omitempty"`
	Candidates []dataset.Entity   `json:"candidates,omitempty"`
}

type DatasetSummary struct {
	Title       string      `json:"title"`
	City        string      `json:"city"`
	Center      types.Point `json:"center"`
	DefaultZoom int         `json:"defaultZoom"`
	Places      int         `json:"places"`
	Restaurants int         `json:"restaurants"`
}

func Summarize(d *dataset.Dataset) *DatasetSummary {
	return &DatasetSummary{
		Title:       d.Title,
		City:        d.City.Name,
		Center:      d.City.Center,
		DefaultZoom: d.City.DefaultZoom,
		Places:      len(d.Places),
		Restaurants: len(d.Restaurants),
	}
}

// Snapshot is the controller state as seen by a renderer joining late.
type Snapshot struct {
	State      State             `json:"state"`
	Selected   *dataset.Entity   `json:"selected,omitempty"`
	Route      *Route            `json:"route,omitempty"`
	Proximity  []proximity.Match `json:"proximity"`
	Visibility Visibility        `json:"visibility"`
}
