// README: Remote dataset provider; asks the generation service for a plan and validates it.
package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"tripmap/internal/ai"
	"tripmap/internal/types"
)

const (
	MinDays = 1
	MaxDays = 30
)

type Request struct {
	CityName    string `json:"cityName"`
	NumDays     int    `json:"numDays"`
	Preferences string `json:"preferences"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.CityName) == "" {
		return eris.Wrap(ErrInvalidRequest, "city name is required")
	}
	if r.NumDays < MinDays || r.NumDays > MaxDays {
		return eris.Wrapf(ErrInvalidRequest, "numDays must be between %d and %d", MinDays, MaxDays)
	}
	return nil
}

// Generator produces a dataset for a request. Errors are ErrConfig, ErrNetwork,
// ErrMalformedResponse or ErrInvalidRequest.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Dataset, error)
}

// PlanSource returns the raw JSON plan text for a request.
type PlanSource interface {
	GeneratePlan(ctx context.Context, req ai.PlanRequest) (string, error)
}

// CenterLocator resolves a city name to its center; used to repair plans without one.
type CenterLocator interface {
	CityCenter(ctx context.Context, city string) (types.Point, error)
}

type RemoteProvider struct {
	source  PlanSource
	locator CenterLocator
}

// NewRemoteProvider builds a provider. locator may be nil.
func NewRemoteProvider(source PlanSource, locator CenterLocator) *RemoteProvider {
	return &RemoteProvider{source: source, locator: locator}
}

func (p *RemoteProvider) Generate(ctx context.Context, req Request) (*Dataset, error) {
	req.CityName = strings.TrimSpace(req.CityName)
	req.Preferences = strings.TrimSpace(req.Preferences)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if p.source == nil {
		return nil, eris.Wrap(ErrConfig, "no generation source")
	}

	text, err := p.source.GeneratePlan(ctx, ai.PlanRequest{
		CityName:    req.CityName,
		NumDays:     req.NumDays,
		Preferences: req.Preferences,
	})
	if err != nil {
		switch {
		case eris.Is(err, ai.ErrNotConfigured):
			return nil, eris.Wrapf(ErrConfig, "%v", err)
		case eris.Is(err, ai.ErrEmptyResponse):
			return nil, eris.Wrapf(ErrMalformedResponse, "%v", err)
		default:
			return nil, eris.Wrapf(ErrNetwork, "%v", err)
		}
	}

	plan, err := DecodePlanJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	p.repairCenter(ctx, plan, req.CityName)

	d, err := Normalize(plan)
	if err != nil {
		return nil, err
	}
	d.Title = fmt.Sprintf("%s - %d Day Trip", d.City.Name, req.NumDays)
	return d, nil
}

// repairCenter fills a missing city center by geocoding; failures leave the plan
// untouched so validation reports it.
func (p *RemoteProvider) repairCenter(ctx context.Context, plan *Plan, requested string) {
	if p.locator == nil || plan.CityConfig == nil || plan.CityConfig.Center != nil {
		return
	}
	name := plan.CityConfig.Name
	if strings.TrimSpace(name) == "" {
		name = requested
	}
	center, err := p.locator.CityCenter(ctx, name)
	if err != nil {
		zap.L().Warn("city center geocode failed", zap.String("city", name), zap.Error(err))
		return
	}
	plan.CityConfig.Center = &center
}
