package generator

import (
	"errors"
	"net/http"
	"strings"

	"kwallo/pkg/auth"
	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	logger  logging.Logger
}

func NewHandler(service *Service, logger logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.POST("/generate", handler.HandleGenerate)
}

func (h *Handler) HandleGenerate(c *gin.Context) {
	if h.service.Provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation is not configured"})
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	req.Form.Request = strings.TrimSpace(req.Form.Request)
	if req.ProfileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), auth.UserID(c), req)
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, ErrProfileIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete your business profile before generating"})
	case errors.Is(err, ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{"error": "free plan generation limit reached"})
	case err != nil:
		h.logger.WithError(err).WithField("generator", string(req.Generator)).Warn("Generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
	default:
		c.JSON(http.StatusOK, result)
	}
}
