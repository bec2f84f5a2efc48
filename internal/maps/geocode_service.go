// README: Google Geocoding lookups used to repair generated plans without a city center.
package maps

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"googlemaps.github.io/maps"

	"tripmap/internal/types"
)

var ErrNoResult = errors.New("geocode: no result")

// GeocodeService handles interactions with the Google Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "failed to create maps client")
	}
	return &GeocodeService{client: client}, nil
}

// CityCenter returns the geocoded center of a city.
func (s *GeocodeService) CityCenter(ctx context.Context, city string) (types.Point, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return types.Point{}, ErrNoResult
	}
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  city,
		Language: "en",
	})
	if err != nil {
		return types.Point{}, eris.Wrapf(err, "geocode %q", city)
	}
	return pickCenter(results)
}

// pickCenter prefers a locality result; otherwise the first result wins.
func pickCenter(results []maps.GeocodingResult) (types.Point, error) {
	if len(results) == 0 {
		return types.Point{}, ErrNoResult
	}
	best := results[0]
	for _, r := range results {
		if hasType(r.Types, "locality") {
			best = r
			break
		}
	}
	p := types.Point{Lat: best.Geometry.Location.Lat, Lng: best.Geometry.Location.Lng}
	if !p.Valid() {
		return types.Point{}, eris.Errorf("geocode: invalid location %s", p)
	}
	return p, nil
}

func hasType(kinds []string, want string) bool {
	for _, t := range kinds {
		if t == want {
			return true
		}
	}
	return false
}
