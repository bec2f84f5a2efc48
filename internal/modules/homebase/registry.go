// README: Home base registry; resolves the reference point by precedence and holds the user override.
package homebase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/types"
)

var (
	// ErrLocationUnavailable: the client denied or cannot provide its position.
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrUnknownEntity       = errors.New("unknown entity")
	ErrInvalidLocation     = errors.New("invalid location")
)

const (
	MyLocationName     = "My Location"
	CustomLocationName = "Custom Location"
	// HomeZoom is the zoom used when centring the map on the home base.
	HomeZoom = 15
	// CandidateCount is how many popular places are offered as home base shortcuts.
	CandidateCount = 5
)

// Source names which precedence rule produced the current home base.
type Source string

const (
	SourceCustom     Source = "custom"
	SourceDataset    Source = "dataset"
	SourceConfig     Source = "config"
	SourcePopular    Source = "popular"
	SourceCityCenter Source = "city_center"
)

type Resolved struct {
	dataset.HomeBase
	Source Source `json:"source"`
}

// View is a map camera position.
type View struct {
	Center types.Point `json:"center"`
	Zoom   int         `json:"zoom"`
}

// Locator reports the client's current position.
type Locator interface {
	Locate(ctx context.Context) (types.Point, error)
}

// Registry holds the current home base for one session. The resolved value is
// recomputed from the dataset on every read until a custom override is set.
type Registry struct {
	mu     sync.RWMutex
	data   *dataset.Dataset
	custom *dataset.HomeBase

	locate singleflight.Group
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetDataset swaps the dataset used for rules 2 to 4. A custom override survives.
func (r *Registry) SetDataset(d *dataset.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = d
}

// Reset clears both the dataset and the override.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.custom = nil
}

// Current returns the home base by precedence: custom, dataset-supplied, city
// configuration, most popular place, city center. ok is false only when there is
// neither an override nor a dataset.
func (r *Registry) Current() (Resolved, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return resolve(r.custom, r.data)
}

func resolve(custom *dataset.HomeBase, d *dataset.Dataset) (Resolved, bool) {
	switch {
	case custom != nil:
		return Resolved{HomeBase: *custom, Source: SourceCustom}, true
	case d == nil:
		return Resolved{}, false
	case d.HomeBase != nil:
		return Resolved{HomeBase: *d.HomeBase, Source: SourceDataset}, true
	case d.City.HomeBase != nil:
		return Resolved{HomeBase: *d.City.HomeBase, Source: SourceConfig}, true
	}

	if e, ok := mostPopular(d.Places); ok {
		return Resolved{
			HomeBase: dataset.HomeBase{
				Name:        e.Name + " (Auto Home Base)",
				Location:    e.Location,
				Color:       dataset.DefaultHomeColor,
				Description: "Automatically selected as home base due to popularity",
			},
			Source: SourcePopular,
		}, true
	}
	return Resolved{
		HomeBase: dataset.HomeBase{
			Name:        d.City.Name + " Center (Home Base)",
			Location:    d.City.Center,
			Color:       dataset.DefaultHomeColor,
			Description: "City center selected as default home base",
		},
		Source: SourceCityCenter,
	}, true
}

// mostPopular returns the place with the highest positive popularity; the first wins ties.
func mostPopular(places []dataset.Entity) (dataset.Entity, bool) {
	var (
		best  dataset.Entity
		score float64
		found bool
	)
	for _, p := range places {
		if p.Popularity == nil || *p.Popularity <= 0 {
			continue
		}
		if !found || *p.Popularity > score {
			best, score, found = p, *p.Popularity, true
		}
	}
	return best, found
}

// SetCustom installs an explicit override that wins until Reset.
func (r *Registry) SetCustom(p types.Point, name string) (Resolved, error) {
	if !p.Valid() {
		return Resolved{}, eris.Wrapf(ErrInvalidLocation, "home base %s out of range", p)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = CustomLocationName
	}
	hb := &dataset.HomeBase{Name: name, Location: p, Color: dataset.DefaultHomeColor}

	r.mu.Lock()
	r.custom = hb
	r.mu.Unlock()

	zap.L().Debug("custom home base set", zap.String("name", name), zap.Stringer("location", p))
	return Resolved{HomeBase: *hb, Source: SourceCustom}, nil
}

// SetFromEntity installs the entity's location as the custom home base.
func (r *Registry) SetFromEntity(id types.ID) (Resolved, error) {
	r.mu.RLock()
	e, ok := r.data.Entity(id)
	r.mu.RUnlock()
	if !ok {
		return Resolved{}, eris.Wrapf(ErrUnknownEntity, "entity %q", id)
	}
	return r.SetCustom(e.Location, e.Name)
}

// ResolveFromGeolocation asks the locator for the client position and installs it
// as "My Location". Concurrent calls share one lookup.
func (r *Registry) ResolveFromGeolocation(ctx context.Context, loc Locator) (Resolved, error) {
	p, err := r.Locate(ctx, loc)
	if err != nil {
		return Resolved{}, err
	}
	return r.SetCustom(p, MyLocationName)
}

// Locate runs the geolocation lookup without installing the result. Every failure
// is ErrLocationUnavailable.
func (r *Registry) Locate(ctx context.Context, loc Locator) (types.Point, error) {
	if loc == nil {
		return types.Point{}, eris.Wrap(ErrLocationUnavailable, "geolocation is not supported")
	}
	v, err, _ := r.locate.Do("locate", func() (any, error) {
		p, err := loc.Locate(ctx)
		if err != nil {
			if eris.Is(err, ErrLocationUnavailable) {
				return nil, err
			}
			return nil, eris.Wrapf(ErrLocationUnavailable, "%v", err)
		}
		if !p.Valid() {
			return nil, eris.Wrapf(ErrLocationUnavailable, "reported position %s out of range", p)
		}
		return p, nil
	})
	if err != nil {
		return types.Point{}, err
	}
	return v.(types.Point), nil
}

// HomeView is the camera position for "go to home base".
func (r *Registry) HomeView() (View, bool) {
	hb, ok := r.Current()
	if !ok {
		return View{}, false
	}
	return View{Center: hb.Location, Zoom: HomeZoom}, true
}

// PopularCandidates lists the top places by popularity for the home base picker.
// Input order breaks ties, so a dataset without scores yields its first places.
func (r *Registry) PopularCandidates() []dataset.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.data == nil {
		return []dataset.Entity{}
	}
	out := append([]dataset.Entity(nil), r.data.Places...)
	sort.SliceStable(out, func(i, j int) bool {
		return popularity(out[i]) > popularity(out[j])
	})
	if len(out) > CandidateCount {
		out = out[:CandidateCount]
	}
	return out
}

func popularity(e dataset.Entity) float64 {
	if e.Popularity == nil {
		return 0
	}
	return *e.Popularity
}
