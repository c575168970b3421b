package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetReport recomputes every view from the loaded files and current settings
// GET /api/report
func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.session.Report()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportXLSX summary workbook download
// GET /api/export.xlsx
func (h *Handler) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.session.ExportXLSX(&buf); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", contentDisposition(h.exportFilename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCSV summary CSV download
// GET /api/export.csv
func (h *Handler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.session.ExportCSV(&buf); err != nil {
		h.writeError(c, err)
		return
	}
	name := strings.TrimSuffix(h.exportFilename, ".xlsx") + ".csv"
	c.Header("Content-Disposition", contentDisposition(name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
