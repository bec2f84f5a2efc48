// README: Session handlers: lifecycle, UI event dispatch, dataset switching, geolocation and read models.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmap/internal/http/middleware"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/session"
	"tripmap/internal/types"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(m *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: m}
}

type createSessionResp struct {
	Session session.State `json:"session"`
	eventsResponse
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	s, events, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, createSessionResp{Session: s.State(), eventsResponse: eventsResponse{Events: events}})
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	writeJSON(c, http.StatusOK, middleware.SessionFrom(c).State())
}

// Delete handles DELETE /api/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), middleware.SessionFrom(c).ID); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dispatch handles POST /api/sessions/:id/events.
func (h *SessionHandler) Dispatch(c *gin.Context) {
	var ev session.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		writeError(c, http.StatusBadRequest, "invalid event: "+err.Error())
		return
	}
	events, err := middleware.SessionFrom(c).Dispatch(c.Request.Context(), ev)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeEvents(c, events)
}

type loadStaticReq struct {
	Name string `json:"name"`
}

// LoadStatic handles POST /api/sessions/:id/dataset/static. An empty body loads the
// default bundle.
func (h *SessionHandler) LoadStatic(c *gin.Context) {
	var req loadStaticReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	events, err := middleware.SessionFrom(c).LoadStatic(c.Request.Context(), req.Name)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeEvents(c, events)
}

// Geolocation handles POST /api/sessions/:id/geolocation with the browser's answer.
func (h *SessionHandler) Geolocation(c *gin.Context) {
	var pos session.ClientPosition
	if err := c.ShouldBindJSON(&pos); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	events, err := middleware.SessionFrom(c).ResolveGeolocation(c.Request.Context(), pos)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeEvents(c, events)
}

type nearbyQuery struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lng      *float64 `form:"lng" binding:"required"`
	Kind     string   `form:"kind"`
	RadiusKm float64  `form:"radius_km" binding:"gte=0"`
	Limit    int      `form:"limit" binding:"gte=0"`
}

type nearbyResp struct {
	Kind    dataset.Kind      `json:"kind"`
	Policy  proximity.Policy  `json:"policy"`
	Matches []proximity.Match `json:"matches"`
}

// Nearby handles GET /api/sessions/:id/nearby. Kind defaults to restaurants; radius and
// limit fall back to the configured policy.
func (h *SessionHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}
	kind := dataset.KindRestaurant
	if q.Kind != "" {
		k, ok := dataset.ParseKind(q.Kind)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown kind "+q.Kind)
			return
		}
		kind = k
	}

	s := middleware.SessionFrom(c)
	policy := s.State().Policy
	if q.RadiusKm > 0 {
		policy.RadiusKm = q.RadiusKm
	}
	if q.Limit > 0 {
		policy.MaxCount = q.Limit
	}
	ref := types.Point{Lat: *q.Lat, Lng: *q.Lng}
	matches, err := s.Nearby(c.Request.Context(), ref, kind, policy)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, nearbyResp{Kind: kind, Policy: policy, Matches: matches})
}

// Map handles GET /api/sessions/:id/map.
func (h *SessionHandler) Map(c *gin.Context) {
	fc, err := middleware.SessionFrom(c).Map()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, fc)
}

// Detail handles GET /api/sessions/:id/entities/:entityID.
func (h *SessionHandler) Detail(c *gin.Context) {
	v, err := middleware.SessionFrom(c).Detail(types.ID(c.Param("entityID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}
