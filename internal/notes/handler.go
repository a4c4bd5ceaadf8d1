package notes

import (
	"errors"
	"net/http"
	"strings"

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
	router.GET("/profiles/:id/notes", handler.HandleList)
	router.POST("/profiles/:id/notes", handler.HandleCreate)
	router.PUT("/notes/:id", handler.HandleUpdate)
	router.DELETE("/notes/:id", handler.HandleDelete)
}

func (h *Handler) HandleList(c *gin.Context) {
	result, err := h.store.ListByProfile(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list notes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}
	if result == nil {
		result = []Note{}
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleCreate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(fields.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	note, err := h.store.Create(c.Request.Context(), auth.UserID(c), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(fields.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	note, err := h.store.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to update note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note"})
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to delete note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
