// README: Selection state machine; keeps route, proximity subset and visibility consistent.
package selection

import (
	"errors"

	"github.com/rotisserie/eris"

	"tripmap/internal/geo"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/types"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNoDataset     = errors.New("no dataset loaded")
)

// HomeBases is the part of the home base registry the controller needs.
type HomeBases interface {
	Current() (homebase.Resolved, bool)
	SetCustom(p types.Point, name string) (homebase.Resolved, error)
}

// Controller is not safe for concurrent use; the owning session serializes calls.
// Every operation returns the render events it produced, in order.
type Controller struct {
	homes  HomeBases
	policy proximity.Policy

	data       *dataset.Dataset
	visibility Visibility

	selected  *dataset.Entity
	route     *Route
	proximity []proximity.Match
}

func NewController(homes HomeBases, policy proximity.Policy) *Controller {
	return &Controller{
		homes:      homes,
		policy:     policy.WithDefaults(),
		visibility: DefaultVisibility(),
	}
}

func (c *Controller) Policy() proximity.Policy { return c.policy }

func (c *Controller) State() State {
	if c.selected != nil {
		return StateEntitySelected
	}
	return StateIdle
}

func (c *Controller) Dataset() *dataset.Dataset { return c.data }

func (c *Controller) Visibility() Visibility { return c.visibility }

func (c *Controller) Selected() (dataset.Entity, bool) {
	if c.selected == nil {
		return dataset.Entity{}, false
	}
	return *c.selected, true
}

func (c *Controller) Route() (Route, bool) {
	if c.route == nil {
		return Route{}, false
	}
	return *c.route, true
}

// Proximity returns the displayed proximity subset; empty when none is shown.
func (c *Controller) Proximity() []proximity.Match {
	return append([]proximity.Match{}, c.proximity...)
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:      c.State(),
		Route:      c.route,
		Proximity:  c.Proximity(),
		Visibility: c.visibility,
	}
	if c.selected != nil {
		e := *c.selected
		s.Selected = &e
	}
	return s
}

// Load replaces the dataset wholesale. Any selection is dropped; visibility is kept.
func (c *Controller) Load(d *dataset.Dataset) []Event {
	events := c.Deselect()
	c.data = d
	events = append(events, Event{Type: EventDatasetLoaded, Dataset: Summarize(d)})
	return append(events, c.homeBaseEvent()...)
}

// Reset tears down selection, dataset and visibility flags.
func (c *Controller) Reset() []Event {
	events := c.Deselect()
	c.data = nil
	if c.visibility != DefaultVisibility() {
		c.visibility = DefaultVisibility()
		v := c.visibility
		events = append(events, Event{Type: EventVisibilityChanged, Visibility: &v})
	}
	return events
}

// SelectEntity makes the entity active: route from the home base, a fresh proximity
// subset for places while restaurants are hidden, and the selection highlight.
func (c *Controller) SelectEntity(id types.ID) ([]Event, error) {
	if c.data == nil {
		return nil, ErrNoDataset
	}
	e, ok := c.data.Entity(id)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownEntity, "entity %q", id)
	}

	var events []Event
	events = append(events, c.setRoute(e)...)
	events = append(events, c.clearProximity()...)
	if e.Kind == dataset.KindPlace && !c.visibility.Restaurants {
		c.proximity = c.policy.Nearby(e.Location, c.data.Restaurants)
		events = append(events, Event{Type: EventProximitySet, Matches: c.Proximity()})
	}
	c.selected = &e
	events = append(events, Event{Type: EventSelected, Entity: &e})
	return events, nil
}

// Deselect returns to idle. It is a no-op when nothing is selected.
func (c *Controller) Deselect() []Event {
	if c.selected == nil && c.route == nil && c.proximity == nil {
		return nil
	}
	events := c.clearRoute()
	events = append(events, c.clearProximity()...)
	if c.selected != nil {
		c.selected = nil
		events = append(events, Event{Type: EventDeselected})
	}
	return events
}

// ToggleCategoryVisibility flips the kind's global visibility. Hiding the selected
// entity's kind deselects it; showing restaurants drops the now redundant proximity
// subset while the route to the selected entity stays.
func (c *Controller) ToggleCategoryVisibility(k dataset.Kind) []Event {
	on := !c.visibility.Visible(k)
	c.visibility.set(k, on)
	v := c.visibility
	events := []Event{{Type: EventVisibilityChanged, Visibility: &v}}

	switch {
	case !on && c.selected != nil && c.selected.Kind == k:
		events = append(events, c.Deselect()...)
	case on && k == dataset.KindRestaurant:
		events = append(events, c.clearProximity()...)
	}
	return events
}

// SetHomeBase installs a custom home base and re-anchors the route. The proximity
// subset belongs to the selected entity and is left alone.
func (c *Controller) SetHomeBase(p types.Point, name string) ([]Event, error) {
	if _, err := c.homes.SetCustom(p, name); err != nil {
		return nil, err
	}
	return c.HomeBaseChanged(), nil
}

// HomeBaseChanged reports the current home base and recomputes the route when an
// entity is selected. Callers that change the registry directly use it to resync.
func (c *Controller) HomeBaseChanged() []Event {
	events := c.homeBaseEvent()
	if c.selected != nil {
		events = append(events, c.setRoute(*c.selected)...)
	}
	return events
}

func (c *Controller) homeBaseEvent() []Event {
	hb, ok := c.homes.Current()
	if !ok {
		return nil
	}
	return []Event{{Type: EventHomeBaseChanged, HomeBase: &hb}}
}

func (c *Controller) setRoute(e dataset.Entity) []Event {
	hb, ok := c.homes.Current()
	if !ok {
		return c.clearRoute()
	}
	r := &Route{
		EntityID:   e.ID,
		From:       hb.Location,
		To:         e.Location,
		Color:      c.data.Color(e),
		DistanceKm: geo.DistanceKm(hb.Location, e.Location),
	}
	c.route = r
	out := *r
	return []Event{{Type: EventRouteSet, Route: &out}}
}

func (c *Controller) clearRoute() []Event {
	if c.route == nil {
		return nil
	}
	c.route = nil
	return []Event{{Type: EventRouteCleared}}
}

func (c *Controller) clearProximity() []Event {
	if c.proximity == nil {
		return nil
	}
	c.proximity = nil
	return []Event{{Type: EventProximityCleared}}
}
