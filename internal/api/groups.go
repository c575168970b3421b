package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Reasons []string `json:"reasons"`
}

// ListGroups groups and exclusions
// GET /api/groups
func (h *Handler) ListGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Overlay())
}

// CreateGroup creates or replaces a reason group
// POST /api/groups
func (h *Handler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requisição inválida"})
		return
	}
	if err := h.session.CreateGroup(req.Name, req.Reasons); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.session.Overlay())
}

// DeleteGroup removes a reason group
// DELETE /api/groups/:name
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.session.RemoveGroup(c.Param("name")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Overlay())
}

// ExportGroups groups and exclusions as a TOML download
// GET /api/groups/export
func (h *Handler) ExportGroups(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.session.ExportGroups(&buf); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", contentDisposition("grupos.toml"))
	c.Data(http.StatusOK, "application/toml; charset=utf-8", buf.Bytes())
}

// ImportGroups replaces groups and exclusions with a TOML body
// POST /api/groups/import
func (h *Handler) ImportGroups(c *gin.Context) {
	if err := h.session.ImportGroups(c.Request.Body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.session.Overlay())
}
