package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kwallo/internal/account"
	"kwallo/internal/calendar"
	"kwallo/internal/knowledge"
	"kwallo/internal/profile"
	"kwallo/pkg/auth"
	"kwallo/pkg/llm"
	"kwallo/pkg/logging"

	"github.com/gin-gonic/gin"
)

const maxMessageRunes = 10000

// calendarWindowDays is how far the assistant's calendar context reaches
// in each direction from today.
const calendarWindowDays = 7

// AccountSource resolves the stored user record. The plan gate reads the
// row rather than the token claim so a tier change applies without
// waiting for a fresh token.
type AccountSource interface {
	Get(ctx context.Context, userID string) (*account.User, error)
}

type Handler struct {
	Store     *Store
	Profiles  *profile.Store
	Knowledge *knowledge.Store
	Calendar  *calendar.Store
	Accounts  AccountSource
	Provider  llm.Provider
	Usage     *account.UsageTracker
	Logger    logging.Logger

	// Now is swappable in tests; the prompt embeds the current date.
	Now func() time.Time
}

func NewHandler(
	store *Store,
	profiles *profile.Store,
	knowledgeStore *knowledge.Store,
	calendarStore *calendar.Store,
	accounts AccountSource,
	provider llm.Provider,
	usage *account.UsageTracker,
	logger logging.Logger,
) *Handler {
	return &Handler{
		Store:     store,
		Profiles:  profiles,
		Knowledge: knowledgeStore,
		Calendar:  calendarStore,
		Accounts:  accounts,
		Provider:  provider,
		Usage:     usage,
		Logger:    logger,
		Now:       time.Now,
	}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.POST("/profiles/:id/chat", handler.HandleSend)
	router.GET("/profiles/:id/chats", handler.HandleList)
	router.GET("/chats/:id", handler.HandleGet)
	router.DELETE("/chats/:id", handler.HandleDelete)
}

type sendRequest struct {
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message"`
}

type sendResponse struct {
	ChatID   string    `json:"chat_id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
	Response string    `json:"response"`
}

func (h *Handler) HandleSend(c *gin.Context) {
	if h.Provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if len([]rune(req.Message)) > maxMessageRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)
	profileID := c.Param("id")

	user, err := h.Accounts.Get(ctx, userID)
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to load user for chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	if !account.CanUseChat(user.SubscriptionTier) {
		c.JSON(http.StatusForbidden, gin.H{"error": "chat requires a paid plan"})
		return
	}

	prof, err := h.Profiles.Get(ctx, userID, profileID)
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to load profile for chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if !prof.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete your business profile before using chat"})
		return
	}

	var priorMessages []Message
	if req.ChatID != "" {
		history, err := h.Store.Get(ctx, userID, req.ChatID)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		if err != nil {
			h.Logger.WithError(err).Warn("Failed to load chat history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat"})
			return
		}
		priorMessages = history.Messages
	}

	guidelineItems, err := h.Knowledge.ListGuidelines(ctx)
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to load guidelines for chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guidelines"})
		return
	}
	guidelines := make([]Guideline, 0, len(guidelineItems))
	for _, item := range guidelineItems {
		guidelines = append(guidelines, Guideline{Target: item.TargetGenerator, Content: item.Content})
	}

	today := h.Now()
	from := today.AddDate(0, 0, -calendarWindowDays).Format(calendar.DateLayout)
	to := today.AddDate(0, 0, calendarWindowDays).Format(calendar.DateLayout)
	window, err := h.Calendar.ListRange(ctx, userID, profileID, from, to)
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to load calendar window for chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load calendar"})
		return
	}
	social, youtube := splitByType(window)

	prompt := BuildPrompt(PromptInput{
		Profile:      prof.ComposerProfile(),
		Guidelines:   guidelines,
		SocialPosts:  social,
		YouTubePosts: youtube,
		History:      priorMessages,
		Message:      req.Message,
		Today:        today,
	})

	result, err := h.Provider.Generate(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		h.Logger.WithError(err).Warn("Assistant LLM call failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}
	h.Usage.RecordLLMCall(userID, result.Usage.PromptTokens, result.Usage.CompletionTokens)

	messages := append(append([]Message{}, priorMessages...),
		Message{Role: "user", Content: req.Message},
		Message{Role: "assistant", Content: result.Text},
	)

	var history *History
	if req.ChatID != "" {
		history, err = h.Store.UpdateMessages(ctx, userID, req.ChatID, messages)
	} else {
		history, err = h.Store.Create(ctx, userID, profileID, messages)
	}
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to save chat history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save chat"})
		return
	}

	c.JSON(http.StatusOK, sendResponse{
		ChatID:   history.ID,
		Title:    history.Title,
		Messages: history.Messages,
		Response: result.Text,
	})
}

// splitByType separates a calendar window into social and youtube posts,
// each sorted most recent date first.
func splitByType(posts []calendar.Post) (social, youtube []calendar.Post) {
	// ListRange returns date ascending; walk backwards for descending.
	for i := len(posts) - 1; i >= 0; i-- {
		switch posts[i].ContentType {
		case calendar.ContentYouTube:
			youtube = append(youtube, posts[i])
		default:
			social = append(social, posts[i])
		}
	}
	return social, youtube
}

func (h *Handler) HandleList(c *gin.Context) {
	histories, err := h.Store.ListByProfile(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to list chats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chats"})
		return
	}
	if histories == nil {
		histories = []History{}
	}
	c.JSON(http.StatusOK, histories)
}

func (h *Handler) HandleGet(c *gin.Context) {
	history, err := h.Store.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to fetch chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chat"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	err := h.Store.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	if err != nil {
		h.Logger.WithError(err).Warn("Failed to delete chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete chat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
