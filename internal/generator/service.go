package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kwallo/internal/account"
	"kwallo/internal/calendar"
	"kwallo/internal/composer"
	"kwallo/internal/content"
	"kwallo/internal/knowledge"
	"kwallo/internal/profile"
	"kwallo/pkg/llm"
	"kwallo/pkg/logging"
)

// Sentinel errors mapped to HTTP statuses by the handler.
var (
	ErrQuotaExceeded     = errors.New("generation quota exceeded")
	ErrProfileIncomplete = errors.New("business profile is incomplete")
	ErrProfileNotFound   = errors.New("profile not found")
)

// ValidationError rejects a request before any work happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Caps on the recent-content context fed into prompts.
const (
	recentSocialLimit  = 10
	recentYouTubeLimit = 3
)

// YouTube scripts must target a length the composer's pacing rules cover.
// The requested minutes also size the completion budget: spoken delivery
// runs roughly 150 words a minute, padded for structure and retries.
const (
	minVideoLength = 5
	maxVideoLength = 40

	tokensPerScriptMinute = 400
)

const titleRequestChars = 30

type ProfileSource interface {
	Get(ctx context.Context, userID, profileID string) (*profile.Profile, error)
}

type KnowledgeSource interface {
	ListForGenerator(ctx context.Context, target, knowledgeType, exampleType string) ([]knowledge.Item, error)
}

type CalendarSource interface {
	RecentPosted(ctx context.Context, profileID, contentType string, limit int) ([]calendar.Post, error)
}

type ContentSink interface {
	Insert(ctx context.Context, record content.Record) (*content.Record, error)
}

type AccountSource interface {
	Get(ctx context.Context, userID string) (*account.User, error)
	ConsumeGeneration(ctx context.Context, userID, tier string) error
}

type Service struct {
	Composer  *composer.Composer
	Profiles  ProfileSource
	Knowledge KnowledgeSource
	Calendar  CalendarSource
	Content   ContentSink
	Accounts  AccountSource
	Provider  llm.Provider
	Usage     *account.UsageTracker
	Logger    logging.Logger
}

// Request is one generation request: which generator plus its form state.
type Request struct {
	ProfileID string                 `json:"profile_id"`
	Generator composer.GeneratorType `json:"generator"`
	Form      composer.FormState     `json:"form"`
}

// Result carries the stored record plus the classified content for display.
type Result struct {
	Record     *content.Record     `json:"record"`
	Classified composer.Classified `json:"classified"`
}

func (s *Service) Generate(ctx context.Context, userID string, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		generationsTotal.WithLabelValues(string(req.Generator), "rejected").Inc()
		return nil, err
	}

	user, err := s.Accounts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !account.CanGenerate(user.SubscriptionTier, user.GenerationsUsed) {
		generationsTotal.WithLabelValues(string(req.Generator), "rejected").Inc()
		return nil, ErrQuotaExceeded
	}

	prof, err := s.Profiles.Get(ctx, userID, req.ProfileID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !prof.Complete() {
		generationsTotal.WithLabelValues(string(req.Generator), "rejected").Inc()
		return nil, ErrProfileIncomplete
	}

	in, err := s.loadContext(ctx, prof, req)
	if err != nil {
		return nil, err
	}

	prompt := s.Composer.Build(*in)
	promptLength.Observe(float64(len(prompt)))

	llmReq := llm.Request{
		Prompt: prompt,
		Schema: responseSchema(req.Generator),
	}
	if req.Generator == composer.YouTubeScript {
		llmReq.MaxOutputTokens = req.Form.VideoLength * tokensPerScriptMinute
	}

	started := time.Now()
	response, err := s.Provider.Generate(ctx, llmReq)
	llmDuration.WithLabelValues(s.Provider.Name()).Observe(time.Since(started).Seconds())
	if err != nil {
		llmCallsTotal.WithLabelValues(s.Provider.Name(), "error").Inc()
		generationsTotal.WithLabelValues(string(req.Generator), "error").Inc()
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	llmCallsTotal.WithLabelValues(s.Provider.Name(), "ok").Inc()
	s.Usage.RecordLLMCall(userID, response.Usage.PromptTokens, response.Usage.CompletionTokens)

	encoded := encodeResult(req.Generator, response.Text)

	record, err := s.Content.Insert(ctx, content.Record{
		BusinessProfileID: prof.ID,
		ContentType:       string(req.Generator),
		Title:             recordTitle(req.Generator, req.Form.Request),
		Content:           encoded,
		PromptUsed:        "Request: " + req.Form.Request,
	})
	if err != nil {
		generationsTotal.WithLabelValues(string(req.Generator), "error").Inc()
		return nil, fmt.Errorf("save generated content: %w", err)
	}

	if err := s.Accounts.ConsumeGeneration(ctx, userID, user.SubscriptionTier); err != nil {
		// The content already exists; a lost race on the free-tier
		// counter is logged rather than surfaced.
		s.Logger.WithError(err).WithField("user_id", userID).Warn("Failed to count generation")
	}
	generationsTotal.WithLabelValues(string(req.Generator), "ok").Inc()

	return &Result{
		Record:     record,
		Classified: composer.Classify(encoded),
	}, nil
}

func validate(req Request) error {
	if !req.Generator.Valid() {
		return &ValidationError{Message: "unknown generator"}
	}
	if req.Form.Request == "" {
		return &ValidationError{Message: "request text is required"}
	}
	if req.Form.SelectedNiche != "" && !composer.ValidNiche(req.Form.SelectedNiche) {
		return &ValidationError{Message: "unknown niche"}
	}
	if req.Generator == composer.SocialPost {
		if len(req.Form.Platforms) == 0 {
			return &ValidationError{Message: "select at least one platform"}
		}
		if req.Form.Length != "" && !composer.ValidLength(req.Form.Length) {
			return &ValidationError{Message: fmt.Sprintf("length must be one of %s", strings.Join(composer.LengthOptions(), ", "))}
		}
	}
	if req.Generator == composer.YouTubeScript {
		if req.Form.VideoLength < minVideoLength || req.Form.VideoLength > maxVideoLength {
			return &ValidationError{Message: fmt.Sprintf("video_length must be between %d and %d minutes", minVideoLength, maxVideoLength)}
		}
	}
	return nil
}

// loadContext gathers the knowledge and recent-content inputs for one build.
func (s *Service) loadContext(ctx context.Context, prof *profile.Profile, req Request) (*composer.Input, error) {
	niche := composer.EffectiveNiche(req.Form, prof.ComposerProfile())

	in := composer.Input{
		Generator: req.Generator,
		Profile:   prof.ComposerProfile(),
		Form:      req.Form,
	}

	guidelines, err := s.Knowledge.ListForGenerator(ctx, string(req.Generator), composer.KnowledgeGuidelines, "")
	if err != nil {
		return nil, fmt.Errorf("load guidelines: %w", err)
	}
	// Guidelines apply regardless of niche tags; only examples and hooks
	// are narrowed to the effective niche.
	if len(guidelines) > 0 {
		in.Guidelines = guidelines[0].Content
	}

	if req.Generator == composer.YouTubeScript {
		scripts, err := s.Knowledge.ListForGenerator(ctx, string(req.Generator), composer.KnowledgeExamples, composer.ExampleFullScript)
		if err != nil {
			return nil, fmt.Errorf("load script examples: %w", err)
		}
		hooks, err := s.Knowledge.ListForGenerator(ctx, string(req.Generator), composer.KnowledgeExamples, composer.ExampleHook)
		if err != nil {
			return nil, fmt.Errorf("load hook examples: %w", err)
		}
		in.FullScripts = composer.Contents(composer.FilterByNiche(toComposerItems(scripts), niche))
		in.Hooks = composer.Contents(composer.FilterByNiche(toComposerItems(hooks), niche))
	} else {
		examples, err := s.Knowledge.ListForGenerator(ctx, string(req.Generator), composer.KnowledgeExamples, "")
		if err != nil {
			return nil, fmt.Errorf("load examples: %w", err)
		}
		in.Examples = composer.Contents(composer.FilterByNiche(toComposerItems(examples), niche))
	}

	social, err := s.Calendar.RecentPosted(ctx, prof.ID, calendar.ContentSocialMedia, recentSocialLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent social posts: %w", err)
	}
	youtube, err := s.Calendar.RecentPosted(ctx, prof.ID, calendar.ContentYouTube, recentYouTubeLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent youtube posts: %w", err)
	}
	in.RecentSocialPosts = postContents(social)
	in.RecentYouTubePosts = postContents(youtube)

	return &in, nil
}

func toComposerItems(items []knowledge.Item) []composer.KnowledgeItem {
	out := make([]composer.KnowledgeItem, len(items))
	for i, item := range items {
		out[i] = item.ToComposer()
	}
	return out
}

func postContents(posts []calendar.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Content
	}
	return out
}

// responseSchema returns the structured-output schema for generators that
// consume JSON, nil for free-text ones.
func responseSchema(g composer.GeneratorType) *llm.Schema {
	switch {
	case g == composer.SocialPost:
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"caption":        {Type: llm.TypeString},
				"hashtags":       {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
				"call_to_action": {Type: llm.TypeString},
			},
		}
	case g.IsSequence():
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"sequence": {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeObject}},
			},
		}
	default:
		return nil
	}
}

// encodeResult normalizes LLM output into the stored content string:
// social posts re-encode compactly, sequences unwrap their top-level
// "sequence" key, YouTube scripts run through the echo filter, and
// everything else is stored verbatim.
func encodeResult(g composer.GeneratorType, text string) string {
	switch {
	case g == composer.YouTubeScript:
		return composer.CleanScript(text)
	case g == composer.SocialPost:
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return text
		}
		return mustCompact(parsed, text)
	case g.IsSequence():
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return text
		}
		if obj, ok := parsed.(map[string]any); ok {
			if seq, ok := obj["sequence"]; ok {
				return mustCompact(seq, text)
			}
		}
		return mustCompact(parsed, text)
	default:
		return text
	}
}

func mustCompact(v any, fallback string) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(encoded)
}

// recordTitle builds the library title from the generator name and the
// start of the request. YouTube uses a dash, everything else "for".
func recordTitle(g composer.GeneratorType, request string) string {
	runes := []rune(request)
	if len(runes) > titleRequestChars {
		runes = runes[:titleRequestChars]
	}
	separator := " for "
	if g == composer.YouTubeScript {
		separator = " - "
	}
	return g.Title() + separator + string(runes) + "..."
}
