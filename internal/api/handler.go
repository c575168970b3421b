package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/overlay"
	"github.com/jeanthielis/relatorio-retidos/internal/session"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
)

// Handler HTTP surface of a session
type Handler struct {
	session        *session.Session
	store          *store.Store
	exportFilename string
	log            *logrus.Entry
}

// NewHandler creates the API handler. st may be nil.
func NewHandler(sess *session.Session, st *store.Store, exportFilename string, log *logrus.Entry) *Handler {
	if exportFilename == "" {
		exportFilename = "relatorio.xlsx"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		session:        sess,
		store:          st,
		exportFilename: exportFilename,
		log:            log.WithField("component", "api"),
	}
}

// RegisterRoutes registers every route under router
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/imports", h.ListImports)

	// uploads
	router.POST("/upload", h.Upload)

	// targets
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// reasons and overlay
	router.GET("/reasons", h.ListReasons)
	router.PUT("/exclusions", h.SetExclusions)
	router.PUT("/selected-reason", h.SelectReason)
	router.GET("/groups", h.ListGroups)
	router.POST("/groups", h.CreateGroup)
	router.DELETE("/groups/:name", h.DeleteGroup)
	router.GET("/groups/export", h.ExportGroups)
	router.POST("/groups/import", h.ImportGroups)

	// report
	router.GET("/report", h.GetReport)
	router.GET("/export.xlsx", h.ExportXLSX)
	router.GET("/export.csv", h.ExportCSV)
}

// writeError maps domain errors onto status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		report  *importer.ValidationReport
		fileErr *importer.FileError
	)
	switch {
	case errors.As(err, &report):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Problemas encontrados na estrutura dos arquivos",
			"messages": report.Messages(),
			"hint":     importer.ValidationHint,
		})
	case errors.As(err, &fileErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": fileErr.Error(), "dataset": fileErr.Dataset})
	case errors.Is(err, session.ErrMissingInput):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, overlay.ErrEmptyGroupName), errors.Is(err, overlay.ErrEmptySelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, overlay.ErrReasonAlreadyGrouped):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, overlay.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// contentDisposition attachment header with an RFC 5987 filename for non-ASCII names
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
