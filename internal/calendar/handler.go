package calendar

import (
	"errors"
	"net/http"
	"strings"
	"time"

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
	router.GET("/profiles/:id/calendar", handler.HandleList)
	router.POST("/profiles/:id/calendar", handler.HandleCreate)
	router.PUT("/calendar/:id", handler.HandleUpdate)
	router.POST("/calendar/:id/status", handler.HandleSetStatus)
	router.POST("/calendar/:id/reschedule", handler.HandleReschedule)
	router.DELETE("/calendar/:id", handler.HandleDelete)
}

func validateFields(fields *Fields) string {
	fields.Title = strings.TrimSpace(fields.Title)
	if fields.Title == "" {
		return "title is required"
	}
	if _, err := time.Parse(DateLayout, fields.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if fields.ContentType == "" {
		fields.ContentType = ContentSocialMedia
	}
	if fields.ContentType != ContentSocialMedia && fields.ContentType != ContentYouTube {
		return "content_type must be social_media or youtube"
	}
	if fields.Status == "" {
		fields.Status = StatusScheduled
	}
	if fields.Status != StatusScheduled && fields.Status != StatusPosted {
		return "status must be scheduled or posted"
	}
	return ""
}

func (h *Handler) HandleList(c *gin.Context) {
	userID := auth.UserID(c)
	profileID := c.Param("id")

	from := c.Query("from")
	to := c.Query("to")
	var posts []Post
	var err error
	if from != "" || to != "" {
		if _, perr := time.Parse(DateLayout, from); perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		if _, perr := time.Parse(DateLayout, to); perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		posts, err = h.store.ListRange(c.Request.Context(), userID, profileID, from, to)
	} else {
		posts, err = h.store.ListByProfile(c.Request.Context(), userID, profileID)
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list calendar posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list calendar posts"})
		return
	}
	if posts == nil {
		posts = []Post{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) HandleCreate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := validateFields(&fields); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	post, err := h.store.Create(c.Request.Context(), auth.UserID(c), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create calendar post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create calendar post"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := validateFields(&fields); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	post, err := h.store.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar post not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to update calendar post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update calendar post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) HandleSetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Status != StatusScheduled && req.Status != StatusPosted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be scheduled or posted"})
		return
	}

	post, err := h.store.SetStatus(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Status)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar post not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to set calendar post status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set status"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) HandleReschedule(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	post, err := h.store.Reschedule(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Date)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar post not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to reschedule calendar post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reschedule"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar post not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to delete calendar post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete calendar post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
