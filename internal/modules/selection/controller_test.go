package selection

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/geo"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/types"
)

const (
	greenBazaar   types.ID = "12"
	centralMosque types.ID = "10"
	bigAlmatyLake types.ID = "1"
	alasha        types.ID = "r1"
)

// airbnb is the home base bundled with the Almaty dataset.
var airbnb = types.Point{Lat: 43.2615, Lng: 76.9445}

func newController(t *testing.T) (*Controller, *homebase.Registry) {
	t.Helper()
	p, err := dataset.NewStaticProvider("almaty")
	require.NoError(t, err)
	d := p.LoadStatic()

	reg := homebase.NewRegistry()
	reg.SetDataset(d)
	c := NewController(reg, proximity.DefaultPolicy())
	c.Load(d)
	return c, reg
}

func kinds(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func find(events []Event, typ EventType) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func hideRestaurants(t *testing.T, c *Controller) {
	t.Helper()
	c.ToggleCategoryVisibility(dataset.KindRestaurant)
	require.False(t, c.Visibility().Restaurants)
}

func TestInitialState(t *testing.T) {
	c, _ := newController(t)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, DefaultVisibility(), c.Visibility())
	_, ok := c.Route()
	assert.False(t, ok)
	assert.Empty(t, c.Proximity())
}

func TestSelectPlaceWithRestaurantsHidden(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)

	events, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventRouteSet, EventProximitySet, EventSelected}, kinds(events))

	assert.Equal(t, StateEntitySelected, c.State())
	r, ok := c.Route()
	require.True(t, ok)
	assert.Equal(t, airbnb, r.From)
	assert.Equal(t, types.Point{Lat: 43.2608, Lng: 76.9453}, r.To)
	assert.InDelta(t, geo.DistanceKm(r.From, r.To), r.DistanceKm, 1e-12)
	assert.NotEmpty(t, r.Color)

	assert.Equal(t, []string{"r9", "r1"}, proximity.IDs(c.Proximity()))
	for _, m := range c.Proximity() {
		assert.LessOrEqual(t, m.DistanceKm, 1.0)
	}

	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Green Bazaar", sel.Name)
}

func TestSelectPlaceWithRestaurantsVisible(t *testing.T) {
	c, _ := newController(t)

	events, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)
	assert.Empty(t, find(events, EventProximitySet))
	assert.Empty(t, c.Proximity())
	_, ok := c.Route()
	assert.True(t, ok)
}

func TestSelectRestaurantHasNoProximity(t *testing.T) {
	c, _ := newController(t)

	events, err := c.SelectEntity(alasha)
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventRouteSet, EventSelected}, kinds(events))
	assert.Empty(t, c.Proximity())
}

func TestSelectReplacesRouteAndProximity(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)

	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)

	events, err := c.SelectEntity(centralMosque)
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventRouteSet, EventProximityCleared, EventProximitySet, EventSelected}, kinds(events))

	r, ok := c.Route()
	require.True(t, ok)
	assert.Equal(t, centralMosque, r.EntityID)
	assert.Len(t, find(events, EventRouteSet), 1)

	// r9 is 1.10 km from the mosque and falls outside the default radius.
	assert.Equal(t, []string{"r5", "r1"}, proximity.IDs(c.Proximity()))
}

func TestSelectFarPlaceHasEmptySubset(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)

	_, err := c.SelectEntity("8") // Kolsai Lakes
	require.NoError(t, err)
	assert.Empty(t, c.Proximity())
}

func TestSelectUnknownEntity(t *testing.T) {
	c, _ := newController(t)
	_, err := c.SelectEntity("nope")
	assert.True(t, eris.Is(err, ErrUnknownEntity))
	assert.Equal(t, StateIdle, c.State())
}

func TestSelectWithoutDataset(t *testing.T) {
	c := NewController(homebase.NewRegistry(), proximity.Policy{})
	_, err := c.SelectEntity(greenBazaar)
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestDeselectClearsRouteAndProximity(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)
	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)

	events := c.Deselect()
	assert.Equal(t, []EventType{EventRouteCleared, EventProximityCleared, EventDeselected}, kinds(events))
	assert.Equal(t, StateIdle, c.State())
	_, ok := c.Route()
	assert.False(t, ok)
	assert.Empty(t, c.Proximity())

	assert.Empty(t, c.Deselect())
}

func TestShowRestaurantsClearsProximityKeepsRoute(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)
	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)
	require.NotEmpty(t, c.Proximity())

	events := c.ToggleCategoryVisibility(dataset.KindRestaurant)
	assert.Equal(t, []EventType{EventVisibilityChanged, EventProximityCleared}, kinds(events))
	assert.True(t, events[0].Visibility.Restaurants)
	assert.Empty(t, c.Proximity())

	assert.Equal(t, StateEntitySelected, c.State())
	_, ok := c.Route()
	assert.True(t, ok)
}

func TestHideSelectedKindDeselects(t *testing.T) {
	tests := []struct {
		name   string
		id     types.ID
		hide   dataset.Kind
		expect State
	}{
		{"hide places with place selected", greenBazaar, dataset.KindPlace, StateIdle},
		{"hide restaurants with restaurant selected", alasha, dataset.KindRestaurant, StateIdle},
		{"hide restaurants with place selected", greenBazaar, dataset.KindRestaurant, StateEntitySelected},
		{"hide places with restaurant selected", alasha, dataset.KindPlace, StateEntitySelected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t)
			_, err := c.SelectEntity(tt.id)
			require.NoError(t, err)

			events := c.ToggleCategoryVisibility(tt.hide)
			assert.Equal(t, EventVisibilityChanged, events[0].Type)
			assert.False(t, c.Visibility().Visible(tt.hide))
			assert.Equal(t, tt.expect, c.State())
			if tt.expect == StateIdle {
				_, ok := c.Route()
				assert.False(t, ok)
				assert.NotEmpty(t, find(events, EventDeselected))
			}
		})
	}
}

func TestSetHomeBaseRecomputesRouteOnly(t *testing.T) {
	c, reg := newController(t)
	hideRestaurants(t, c)
	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)
	before := c.Proximity()

	p := types.Point{Lat: 43.2389, Lng: 76.8897}
	events, err := c.SetHomeBase(p, "X")
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventHomeBaseChanged, EventRouteSet}, kinds(events))

	hb, ok := reg.Current()
	require.True(t, ok)
	assert.Equal(t, p, hb.Location)
	assert.Equal(t, "X", hb.Name)

	r, _ := c.Route()
	assert.Equal(t, p, r.From)
	assert.Equal(t, greenBazaar, r.EntityID)
	assert.Equal(t, before, c.Proximity())
}

func TestSetHomeBaseWhileIdle(t *testing.T) {
	c, _ := newController(t)
	events, err := c.SetHomeBase(types.Point{Lat: 43.2, Lng: 76.9}, "X")
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventHomeBaseChanged}, kinds(events))
	_, ok := c.Route()
	assert.False(t, ok)
}

func TestSetHomeBaseInvalid(t *testing.T) {
	c, _ := newController(t)
	_, err := c.SetHomeBase(types.Point{Lat: -100, Lng: 0}, "bad")
	assert.True(t, eris.Is(err, homebase.ErrInvalidLocation))
}

func TestLoadDropsSelectionKeepsCustomHomeBase(t *testing.T) {
	c, reg := newController(t)
	p := types.Point{Lat: 43.2, Lng: 76.9}
	_, err := c.SetHomeBase(p, "X")
	require.NoError(t, err)
	_, err = c.SelectEntity(bigAlmatyLake)
	require.NoError(t, err)

	prov, err := dataset.NewStaticProvider("paris")
	require.NoError(t, err)
	paris := prov.LoadStatic()
	reg.SetDataset(paris)
	events := c.Load(paris)

	assert.Equal(t, StateIdle, c.State())
	loaded := find(events, EventDatasetLoaded)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Paris", loaded[0].Dataset.City)
	hbs := find(events, EventHomeBaseChanged)
	require.Len(t, hbs, 1)
	assert.Equal(t, p, hbs[0].HomeBase.Location)
	assert.Equal(t, homebase.SourceCustom, hbs[0].HomeBase.Source)
}

func TestReset(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)
	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)

	events := c.Reset()
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Dataset())
	assert.Equal(t, DefaultVisibility(), c.Visibility())
	assert.NotEmpty(t, find(events, EventVisibilityChanged))
}

func TestSnapshot(t *testing.T) {
	c, _ := newController(t)
	hideRestaurants(t, c)
	_, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)

	s := c.Snapshot()
	assert.Equal(t, StateEntitySelected, s.State)
	require.NotNil(t, s.Selected)
	assert.Equal(t, greenBazaar, s.Selected.ID)
	require.NotNil(t, s.Route)
	assert.Len(t, s.Proximity, 2)
	assert.False(t, s.Visibility.Restaurants)
}

func TestNotify(t *testing.T) {
	c, _ := newController(t)
	events, err := c.SelectEntity(greenBazaar)
	require.NoError(t, err)

	var got []EventType
	Notify(RendererFunc(func(e Event) { got = append(got, e.Type) }), events)
	assert.Equal(t, kinds(events), got)

	Notify(nil, events)
	Notify(LogRenderer{}, events)
}
