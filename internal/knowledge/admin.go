package knowledge

import (
	"errors"
	"net/http"
	"strings"

	"kwallo/internal/composer"
	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

// AdminAPI exposes the admin-only knowledge base CRUD. Routes are mounted
// behind the admin role middleware by the caller.
type AdminAPI struct {
	store  *Store
	logger logging.Logger
}

func NewAdminAPI(store *Store, logger logging.Logger) *AdminAPI {
	return &AdminAPI{store: store, logger: logger}
}

func (a *AdminAPI) RegisterRoutes(router gin.IRoutes) {
	router.GET("/knowledge", a.handleList)
	router.POST("/knowledge", a.handleCreate)
	router.GET("/knowledge/:id", a.handleGet)
	router.PUT("/knowledge/:id", a.handleUpdate)
	router.DELETE("/knowledge/:id", a.handleDelete)
}

func (a *AdminAPI) handleList(c *gin.Context) {
	items, err := a.store.List(c.Request.Context())
	if err != nil {
		a.logger.WithError(err).Warn("Failed to list knowledge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list knowledge"})
		return
	}
	if items == nil {
		items = []Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (a *AdminAPI) handleCreate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := validateFields(&fields); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	item, err := a.store.Create(c.Request.Context(), fields)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to create knowledge item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create knowledge item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (a *AdminAPI) handleGet(c *gin.Context) {
	item, err := a.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "knowledge item not found"})
		return
	}
	if err != nil {
		a.logger.WithError(err).Warn("Failed to fetch knowledge item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch knowledge item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *AdminAPI) handleUpdate(c *gin.Context) {
	var fields Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := validateFields(&fields); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	item, err := a.store.Update(c.Request.Context(), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "knowledge item not found"})
		return
	}
	if err != nil {
		a.logger.WithError(err).Warn("Failed to update knowledge item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update knowledge item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *AdminAPI) handleDelete(c *gin.Context) {
	err := a.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "knowledge item not found"})
		return
	}
	if err != nil {
		a.logger.WithError(err).Warn("Failed to delete knowledge item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete knowledge item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func validateFields(fields *Fields) string {
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Content = strings.TrimSpace(fields.Content)
	if fields.Name == "" {
		return "knowledge_name is required"
	}
	if fields.Content == "" {
		return "content is required"
	}
	switch fields.KnowledgeType {
	case composer.KnowledgeExamples, composer.KnowledgeGuidelines:
	default:
		return "knowledge_type must be examples or guidelines"
	}
	switch fields.ExampleType {
	case "", composer.ExampleFullScript, composer.ExampleHook:
	default:
		return "example_type must be full_script or hook"
	}
	switch fields.PostFormat {
	case "", "text", "video":
	default:
		return "post_format must be text or video"
	}
	if fields.TargetGenerator != TargetGeneralChat && !composer.GeneratorType(fields.TargetGenerator).Valid() {
		return "unknown target_generator"
	}
	return ""
}
