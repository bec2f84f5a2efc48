// README: Plan handlers: generate a dataset through the provider and list bundled datasets.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmap/internal/http/middleware"
	"tripmap/internal/modules/dataset"
)

type PlanHandler struct {
	static *dataset.StaticProvider
}

func NewPlanHandler(static *dataset.StaticProvider) *PlanHandler {
	return &PlanHandler{static: static}
}

// Generate handles POST /api/sessions/:id/plan. It blocks until the plan is applied
// or rejected; a second request while one is running gets 409.
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dataset.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeSessionError(c, err)
		return
	}
	events, err := middleware.SessionFrom(c).Generate(c.Request.Context(), req)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeEvents(c, events)
}

type staticListResp struct {
	Default string   `json:"default"`
	Names   []string `json:"names"`
}

// ListStatic handles GET /api/datasets.
func (h *PlanHandler) ListStatic(c *gin.Context) {
	writeJSON(c, http.StatusOK, staticListResp{Default: h.static.Default(), Names: h.static.Names()})
}
