// README: Session context object; owns dataset, home base registry, selection controller and generation guard.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/modules/selection"
	"tripmap/internal/types"
)

// Deps are shared by every session of a Manager.
type Deps struct {
	Static    *dataset.StaticProvider
	Generator dataset.Generator
	Finder    proximity.Finder
	Policy    proximity.Policy
	Renderer  selection.Renderer
	// GenerateTimeout bounds one generation call; zero means no extra bound.
	GenerateTimeout time.Duration
}

type Session struct {
	ID      string
	Created time.Time

	deps Deps

	mu          sync.Mutex
	homes       *homebase.Registry
	ctrl        *selection.Controller
	pickerArmed bool
	// epoch changes whenever the session navigates away from its dataset; a generation
	// started under an older epoch is discarded.
	epoch uuid.UUID
	// lifetime changes only on teardown; a geolocation answer from before it is dropped.
	lifetime uuid.UUID

	generating *semaphore.Weighted
	// inFlight mirrors the semaphore for readers; probing the semaphore itself would
	// make a concurrent Generate fail.
	inFlight atomic.Bool
}

func newSession(deps Deps) *Session {
	homes := homebase.NewRegistry()
	return &Session{
		ID:         uuid.NewString(),
		Created:    time.Now().UTC(),
		deps:       deps,
		homes:      homes,
		ctrl:       selection.NewController(homes, deps.Policy),
		epoch:      uuid.New(),
		lifetime:   uuid.New(),
		generating: semaphore.NewWeighted(1),
	}
}

// Dispatch routes a UI event through the handler table.
func (s *Session) Dispatch(ctx context.Context, ev Event) ([]selection.Event, error) {
	h, ok := handlers[ev.Kind]
	if !ok {
		return nil, eris.Wrapf(ErrInvalidEvent, "unknown event kind %q", ev.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := h(ctx, s, ev)
	if err != nil {
		return nil, err
	}
	s.notify(events)
	return events, nil
}

// LoadStatic replaces the dataset with a bundled one; an empty name loads the default.
func (s *Session) LoadStatic(ctx context.Context, name string) ([]selection.Event, error) {
	var d *dataset.Dataset
	if name == "" {
		d = s.deps.Static.LoadStatic()
	} else {
		var ok bool
		if d, ok = s.deps.Static.Named(name); !ok {
			return nil, eris.Wrapf(ErrUnknownDataset, "%q", name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := s.apply(ctx, d)
	if err != nil {
		return nil, err
	}
	s.epoch = uuid.New()
	s.notify(events)
	return events, nil
}

// Generate asks the provider for a new plan. Only one generation per session may be
// in flight. On failure the session is left exactly as it was.
func (s *Session) Generate(ctx context.Context, req dataset.Request) ([]selection.Event, error) {
	if !s.generating.TryAcquire(1) {
		return nil, ErrGenerationInFlight
	}
	s.inFlight.Store(true)
	defer func() {
		s.inFlight.Store(false)
		s.generating.Release(1)
	}()

	if s.deps.Generator == nil {
		return nil, eris.Wrap(dataset.ErrConfig, "no generation provider")
	}

	s.mu.Lock()
	token := s.epoch
	s.mu.Unlock()

	if s.deps.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	d, err := s.deps.Generator.Generate(ctx, req)
	if err != nil {
		zap.L().Warn("plan generation failed",
			zap.String("session", s.ID),
			zap.String("city", req.CityName),
			zap.Error(err),
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != token {
		zap.L().Info("discarding late plan", zap.String("session", s.ID), zap.String("city", d.City.Name))
		return nil, ErrStaleGeneration
	}
	events, err := s.apply(ctx, d)
	if err != nil {
		return nil, err
	}
	s.epoch = uuid.New()
	zap.L().Info("plan applied",
		zap.String("session", s.ID),
		zap.String("title", d.Title),
		zap.Int("places", len(d.Places)),
		zap.Int("restaurants", len(d.Restaurants)),
		zap.Duration("took", time.Since(start)),
	)
	s.notify(events)
	return events, nil
}

// Generating reports whether a generation is in flight.
func (s *Session) Generating() bool {
	return s.inFlight.Load()
}

// ResolveGeolocation installs the client position as the home base. The lookup runs
// without the lock; if the session is reset meanwhile the position is discarded.
func (s *Session) ResolveGeolocation(ctx context.Context, loc homebase.Locator) ([]selection.Event, error) {
	s.mu.Lock()
	token := s.lifetime
	s.mu.Unlock()

	p, err := s.homes.Locate(ctx, loc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifetime != token {
		zap.L().Info("discarding late geolocation", zap.String("session", s.ID))
		return nil, ErrStaleGeolocation
	}
	if _, err := s.homes.SetCustom(p, homebase.MyLocationName); err != nil {
		return nil, err
	}
	s.pickerArmed = false
	events := append(s.ctrl.HomeBaseChanged(), s.homeView()...)
	s.notify(events)
	return events, nil
}

// Reset returns the session to its start state.
func (s *Session) Reset(ctx context.Context) []selection.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.reset(ctx)
	s.notify(events)
	return events
}

func (s *Session) reset(ctx context.Context) []selection.Event {
	events := s.ctrl.Reset()
	s.homes.Reset()
	s.pickerArmed = false
	s.epoch = uuid.New()
	s.lifetime = uuid.New()
	if s.deps.Finder != nil {
		if err := s.deps.Finder.Drop(ctx, s.ID); err != nil {
			zap.L().Warn("drop proximity index", zap.String("session", s.ID), zap.Error(err))
		}
	}
	return events
}

// Nearby ranks entities of kind around ref using the configured finder.
func (s *Session) Nearby(ctx context.Context, ref types.Point, kind dataset.Kind, p proximity.Policy) ([]proximity.Match, error) {
	if !ref.Valid() {
		return nil, eris.Wrapf(ErrInvalidEvent, "reference %s out of range", ref)
	}
	s.mu.Lock()
	d := s.ctrl.Dataset()
	s.mu.Unlock()
	if d == nil {
		return nil, ErrNoDataset
	}

	p = p.WithDefaults()
	if s.deps.Finder == nil {
		return p.Nearby(ref, d.Collection(kind)), nil
	}
	return s.deps.Finder.Nearby(ctx, s.ID, kind, ref, d.Collection(kind), p)
}

// apply indexes d and swaps it in. Nothing changes if indexing fails.
func (s *Session) apply(ctx context.Context, d *dataset.Dataset) ([]selection.Event, error) {
	if s.deps.Finder != nil {
		for _, k := range []dataset.Kind{dataset.KindPlace, dataset.KindRestaurant} {
			if err := s.deps.Finder.Index(ctx, s.ID, k, d.Collection(k)); err != nil {
				return nil, eris.Wrap(err, "index dataset")
			}
		}
	}
	s.homes.SetDataset(d)
	s.pickerArmed = false
	return s.ctrl.Load(d), nil
}

func (s *Session) homeView() []selection.Event {
	v, ok := s.homes.HomeView()
	if !ok {
		return nil
	}
	return []selection.Event{{Type: selection.EventViewChanged, View: &v}}
}

func (s *Session) notify(events []selection.Event) {
	selection.Notify(s.deps.Renderer, events)
}

// State is a full snapshot for clients that (re)connect.
type State struct {
	ID          string                    `json:"id"`
	Dataset     *selection.DatasetSummary `json:"dataset,omitempty"`
	HomeBase    *homebase.Resolved        `json:"homeBase,omitempty"`
	Selection   selection.Snapshot        `json:"selection"`
	PickerArmed bool                      `json:"pickerArmed"`
	Generating  bool                      `json:"generating"`
	Policy      proximity.Policy          `json:"policy"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:          s.ID,
		Selection:   s.ctrl.Snapshot(),
		PickerArmed: s.pickerArmed,
		Generating:  s.Generating(),
		Policy:      s.ctrl.Policy(),
	}
	if d := s.ctrl.Dataset(); d != nil {
		st.Dataset = selection.Summarize(d)
	}
	if hb, ok := s.homes.Current(); ok {
		st.HomeBase = &hb
	}
	return st
}
