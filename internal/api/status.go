package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeanthielis/relatorio-retidos/internal/session"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
)

// StatusResponse status payload
type StatusResponse struct {
	session.Status
	Ready      bool             `json:"ready"`                // both files loaded
	LastImport *store.ImportLog `json:"lastImport,omitempty"` // most recent upload attempt
}

// GetStatus session state
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	st := h.session.Status()
	resp := StatusResponse{
		Status: st,
		Ready:  st.Production != nil && st.Retained != nil,
	}

	if h.store != nil {
		if logs, err := h.store.ListImportLogs(1); err == nil && len(logs) > 0 {
			resp.LastImport = &logs[0]
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListImports upload history of the session store
// GET /api/imports
func (h *Handler) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.ImportLog{}})
		return
	}
	logs, err := h.store.ListImportLogs(50)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if logs == nil {
		logs = []store.ImportLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
