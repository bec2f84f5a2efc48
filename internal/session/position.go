// README: Client-reported geolocation adapter.
package session

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"tripmap/internal/modules/homebase"
	"tripmap/internal/types"
)

// ClientPosition is the browser's answer to a geolocation prompt: a position or the
// reason it could not be obtained.
type ClientPosition struct {
	Point *types.Point `json:"point,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (p ClientPosition) Locate(context.Context) (types.Point, error) {
	if msg := strings.TrimSpace(p.Error); msg != "" {
		return types.Point{}, eris.Wrapf(homebase.ErrLocationUnavailable, "%s", msg)
	}
	if p.Point == nil {
		return types.Point{}, eris.Wrap(homebase.ErrLocationUnavailable, "geolocation is not supported")
	}
	return *p.Point, nil
}
