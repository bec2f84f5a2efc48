// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/selection"
	"tripmap/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

// eventsResponse carries the ordered render events an operation produced.
type eventsResponse struct {
	Events []selection.Event `json:"events"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeEvents(c *gin.Context, events []selection.Event) {
	if events == nil {
		events = []selection.Event{}
	}
	writeJSON(c, http.StatusOK, eventsResponse{Events: events})
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case eris.Is(err, dataset.ErrConfig):
		return http.StatusServiceUnavailable
	case eris.Is(err, dataset.ErrNetwork):
		return http.StatusBadGateway
	case eris.Is(err, dataset.ErrMalformedResponse):
		return http.StatusUnprocessableEntity
	case eris.Is(err, session.ErrNotFound),
		eris.Is(err, selection.ErrUnknownEntity),
		eris.Is(err, homebase.ErrUnknownEntity),
		eris.Is(err, session.ErrUnknownDataset):
		return http.StatusNotFound
	case eris.Is(err, homebase.ErrLocationUnavailable),
		eris.Is(err, session.ErrGenerationInFlight),
		eris.Is(err, session.ErrStaleGeneration),
		eris.Is(err, session.ErrStaleGeolocation),
		eris.Is(err, session.ErrNoDataset):
		return http.StatusConflict
	case eris.Is(err, session.ErrInvalidEvent),
		eris.Is(err, dataset.ErrInvalidRequest),
		eris.Is(err, homebase.ErrInvalidLocation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeSessionError(c *gin.Context, err error) {
	status := errorStatus(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, status, "internal error")
		return
	}
	writeError(c, status, err.Error())
}
