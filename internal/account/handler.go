package account

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
	router.GET("/me", handler.HandleGetMe)
	router.PATCH("/me", handler.HandleUpdateMe)
}

func (h *Handler) HandleGetMe(c *gin.Context) {
	userID := auth.UserID(c)
	user, err := h.store.Get(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		// First request from a freshly issued token provisions the row.
		if err := h.store.Ensure(c.Request.Context(), userID, auth.Email(c)); err != nil {
			h.logger.WithError(err).Warn("Failed to provision user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		user, err = h.store.Get(c.Request.Context(), userID)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to load user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) HandleUpdateMe(c *gin.Context) {
	var update UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if update.SubscriptionTier != nil && !ValidTier(*update.SubscriptionTier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription tier"})
		return
	}

	userID := auth.UserID(c)
	user, err := h.store.Update(c.Request.Context(), userID, update)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
