package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type reasonsRequest struct {
	Reasons []string `json:"reasons"`
}

type selectReasonRequest struct {
	Reason string `json:"reason"`
}

// ListReasons distinct raw reasons of the retained file
// GET /api/reasons
func (h *Handler) ListReasons(c *gin.Context) {
	reasons, err := h.session.Reasons()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reasons": reasons})
}

// SetExclusions replaces the excluded reasons
// PUT /api/exclusions
func (h *Handler) SetExclusions(c *gin.Context) {
	var req reasonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requisição inválida"})
		return
	}
	h.session.ExcludeReasons(req.Reasons)
	c.JSON(http.StatusOK, h.session.Overlay())
}

// SelectReason reason analysed in the drilldown
// PUT /api/selected-reason
func (h *Handler) SelectReason(c *gin.Context) {
	var req selectReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requisição inválida"})
		return
	}
	if err := h.session.SelectReason(req.Reason); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reason": req.Reason})
}
