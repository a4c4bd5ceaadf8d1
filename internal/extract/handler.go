package extract

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	logger logging.Logger
}

func NewHandler(logger logging.Logger) *Handler {
	return &Handler{logger: logger}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.POST("/extract", handler.HandleExtract)
}

func (h *Handler) HandleExtract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	if header != nil && header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxUploadSize>>20)})
		return
	}

	filename := "upload"
	if header != nil && header.Filename != "" {
		filename = header.Filename
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	if int64(len(data)) > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxUploadSize>>20)})
		return
	}

	result, err := FromFile(filename, data)
	if errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyContent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to extract upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract file"})
		return
	}

	c.JSON(http.StatusOK, result)
}
