package content

import (
	"errors"
	"net/http"

	"kwallo/pkg/auth"
	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store  *Store
	logger logging.Logger
}

func NewHandler(store *Store, logger logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.GET("/profiles/:id/content", handler.HandleList)
	router.DELETE("/content/:id", handler.HandleDelete)
}

func (h *Handler) HandleList(c *gin.Context) {
	records, err := h.store.ListByProfile(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list generated content")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list content"})
		return
	}
	if records == nil {
		records = []Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to delete generated content")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
