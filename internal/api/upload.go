package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// maxUploadBytes limit of a single multipart request
const maxUploadBytes = 64 << 20

type uploadError struct {
	Dataset model.Dataset `json:"dataset"`
	Error   string        `json:"error"`
}

// Upload loads the "producao" and/or "retidos" files of a multipart form.
// Each file is loaded independently; a failure does not affect the other one.
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formulário inválido"})
		return
	}

	loaders := []struct {
		dataset model.Dataset
		load    func(string, io.Reader) error
	}{
		{model.DatasetProduction, h.session.LoadProduction},
		{model.DatasetRetained, h.session.LoadRetained},
	}

	var (
		loaded []model.Dataset
		failed []uploadError
	)
	for _, l := range loaders {
		files := form.File[string(l.dataset)]
		if len(files) == 0 {
			continue
		}
		if err := loadMultipartFile(l.load, files[0]); err != nil {
			failed = append(failed, uploadError{Dataset: l.dataset, Error: uploadMessage(err)})
			continue
		}
		loaded = append(loaded, l.dataset)
	}

	if len(loaded) == 0 && len(failed) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nenhum arquivo enviado (campos producao, retidos)"})
		return
	}

	code := http.StatusOK
	if len(failed) > 0 {
		code = http.StatusBadRequest
	}
	c.JSON(code, gin.H{
		"loaded": loaded,
		"errors": failed,
		"status": h.session.Status(),
	})
}

func loadMultipartFile(load func(string, io.Reader) error, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return load(fh.Filename, f)
}

func uploadMessage(err error) string {
	var fe *importer.FileError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}
