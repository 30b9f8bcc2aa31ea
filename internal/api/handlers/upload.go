package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imoveis/catalog/internal/api/middleware"
	"github.com/imoveis/catalog/internal/core/media"
)

const (
	uploadField    = "file"
	maxFilesPerReq = 20
	sniffLen       = 512
)

type UploadHandler struct {
	mediaService *media.Service
}

func NewUploadHandler(mediaService *media.Service) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

type uploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Upload accepts one or more images in the "file" field. Every file is
// checked before any is processed; the response lists URLs in request order.
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := middleware.GetSession(c).Authorize(); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := h.mediaService.MaxBytes()*maxFilesPerReq + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File[uploadField]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if len(files) > maxFilesPerReq {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per request", maxFilesPerReq)})
		return
	}

	for _, fh := range files {
		if err := h.check(fh); err != nil {
			h.writeError(c, fh.Filename, err)
			return
		}
	}

	results := make([]uploadResult, 0, len(files))
	for _, fh := range files {
		data, err := readAll(fh, h.mediaService.MaxBytes())
		if err != nil {
			h.writeError(c, fh.Filename, err)
			return
		}
		url, err := h.mediaService.Upload(c.Request.Context(), data)
		if err != nil {
			h.writeError(c, fh.Filename, err)
			return
		}
		results = append(results, uploadResult{Filename: fh.Filename, URL: url})
	}

	c.JSON(http.StatusCreated, gin.H{"files": results})
}

func (h *UploadHandler) check(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	return h.mediaService.Check(fh.Size, head[:n])
}

func readAll(fh *multipart.FileHeader, max int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, media.ErrTooLarge
	}
	return data, nil
}

func (h *UploadHandler) writeError(c *gin.Context, filename string, err error) {
	switch {
	case errors.Is(err, media.ErrNotImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image files are accepted", "filename": filename})
	case errors.Is(err, media.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":    fmt.Sprintf("image exceeds %d MB", h.mediaService.MaxBytes()/(1024*1024)),
			"filename": filename,
		})
	case errors.Is(err, media.ErrEmpty), errors.Is(err, media.ErrUndecodable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "filename": filename})
	case errors.Is(err, media.ErrStoreFailure):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage unavailable", "retryable": true, "filename": filename})
	default:
		internalError(c, err)
	}
}
