package profile

import (
	"errors"
	"net/http"
	"strings"

	"kwallo/internal/account"
	"kwallo/pkg/auth"
	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

// activeProfileKey is the user_settings key holding the selected profile id.
const activeProfileKey = "active_profile_id"

type Handler struct {
	store    *Store
	accounts *account.Store
	logger   logging.Logger
}

func NewHandler(store *Store, accounts *account.Store, logger logging.Logger) *Handler {
	return &Handler{store: store, accounts: accounts, logger: logger}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.GET("/profiles", handler.HandleList)
	router.POST("/profiles", handler.HandleCreate)
	router.GET("/profiles/active", handler.HandleGetActive)
	router.PUT("/profiles/active", handler.HandleSetActive)
	router.GET("/profiles/:id", handler.HandleGet)
	router.PUT("/profiles/:id", handler.HandleUpdate)
	router.DELETE("/profiles/:id", handler.HandleDelete)
}

type profileResponse struct {
	*Profile
	IsComplete bool `json:"is_complete"`
}

func toResponse(p *Profile) profileResponse {
	return profileResponse{Profile: p, IsComplete: p.Complete()}
}

func (h *Handler) HandleList(c *gin.Context) {
	userID := auth.UserID(c)
	profiles, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list profiles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list profiles"})
		return
	}
	response := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		response = append(response, toResponse(&profiles[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) HandleCreate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := auth.UserID(c)
	count, err := h.store.Count(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to count profiles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	// The stored tier decides the cap so a plan change applies without a
	// token refresh.
	user, err := h.accounts.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	if !account.CanCreateProfile(user.SubscriptionTier, count) {
		c.JSON(http.StatusForbidden, gin.H{"error": "profile limit reached for your plan"})
		return
	}

	p, err := h.store.Create(c.Request.Context(), userID, fields)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(p))
}

func (h *Handler) HandleGet(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.store.Get(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.store.Update(c.Request.Context(), userID, c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

func (h *Handler) HandleDelete(c *gin.Context) {
	userID := auth.UserID(c)
	err := h.store.Delete(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to delete profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) HandleGetActive(c *gin.Context) {
	userID := auth.UserID(c)
	profileID, err := h.accounts.Setting(c.Request.Context(), userID, activeProfileKey)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read active profile setting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read active profile"})
		return
	}
	if profileID == "" {
		c.JSON(http.StatusOK, gin.H{"profile_id": nil})
		return
	}
	// The setting may point at a deleted profile; treat that as unset.
	if _, err := h.store.Get(c.Request.Context(), userID, profileID); errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"profile_id": nil})
		return
	} else if err != nil {
		h.logger.WithError(err).Warn("Failed to verify active profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read active profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_id": profileID})
}

func (h *Handler) HandleSetActive(c *gin.Context) {
	var req struct {
		ProfileID string `json:"profile_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.ProfileID = strings.TrimSpace(req.ProfileID)
	if req.ProfileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}

	userID := auth.UserID(c)
	if _, err := h.store.Get(c.Request.Context(), userID, req.ProfileID); errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	} else if err != nil {
		h.logger.WithError(err).Warn("Failed to verify profile ownership")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set active profile"})
		return
	}

	if err := h.accounts.SetSetting(c.Request.Context(), userID, activeProfileKey, req.ProfileID); err != nil {
		h.logger.WithError(err).Warn("Failed to store active profile setting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set active profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_id": req.ProfileID})
}
