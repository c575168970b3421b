package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// TargetLimits bounds of the target percent input
type TargetLimits struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// ConfigResponse targets plus the input bounds the UI renders
type ConfigResponse struct {
	model.TargetConfig
	Limits TargetLimits `json:"targetPctLimits"`
}

// UpdateConfigRequest partial update of the target settings
type UpdateConfigRequest struct {
	TargetPct                *float64 `json:"targetPct"`
	AreaCeiling              *float64 `json:"areaCeiling"`
	AreaCeilingEnabled       *bool    `json:"areaCeilingEnabled"`
	OccurrenceCeiling        *int     `json:"occurrenceCeiling"`
	OccurrenceCeilingEnabled *bool    `json:"occurrenceCeilingEnabled"`
}

// GetConfig current targets
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		TargetConfig: h.session.Targets(),
		Limits: TargetLimits{
			Min:  model.MinTargetPct,
			Max:  model.MaxTargetPct,
			Step: model.TargetPctStep,
		},
	})
}

// UpdateConfig applies the fields present in the request
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requisição inválida"})
		return
	}

	t := h.session.Targets()
	if req.TargetPct != nil {
		t.TargetPct = *req.TargetPct
	}
	if req.AreaCeiling != nil {
		t.AreaCeiling = *req.AreaCeiling
	}
	if req.AreaCeilingEnabled != nil {
		t.AreaCeilingEnabled = *req.AreaCeilingEnabled
	}
	if req.OccurrenceCeiling != nil {
		t.OccurrenceCeiling = *req.OccurrenceCeiling
	}
	if req.OccurrenceCeilingEnabled != nil {
		t.OccurrenceCeilingEnabled = *req.OccurrenceCeilingEnabled
	}

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.SetTargets(t); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
