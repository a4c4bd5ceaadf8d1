package generator

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"kwallo/internal/account"
	"kwallo/internal/calendar"
	"kwallo/internal/composer"
	"kwallo/internal/content"
	"kwallo/internal/knowledge"
	"kwallo/internal/profile"
	"kwallo/pkg/llm"
	"kwallo/pkg/logging"
)

type fakeProfiles struct {
	profile *profile.Profile
	err     error
}

func (f *fakeProfiles) Get(_ context.Context, _, _ string) (*profile.Profile, error) {
	return f.profile, f.err
}

type fakeKnowledge struct {
	items []knowledge.Item
}

func (f *fakeKnowledge) ListForGenerator(_ context.Context, target, knowledgeType, exampleType string) ([]knowledge.Item, error) {
	var out []knowledge.Item
	for _, item := range f.items {
		if item.TargetGenerator != target {
			continue
		}
		if knowledgeType != "" && item.KnowledgeType != knowledgeType {
			continue
		}
		if exampleType != "" && item.ExampleType != exampleType {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type fakeCalendar struct {
	posts []calendar.Post
}

func (f *fakeCalendar) RecentPosted(_ context.Context, _, contentType string, limit int) ([]calendar.Post, error) {
	var out []calendar.Post
	for _, post := range f.posts {
		if post.ContentType == contentType && len(out) < limit {
			out = append(out, post)
		}
	}
	return out, nil
}

type fakeContent struct {
	inserted []content.Record
}

func (f *fakeContent) Insert(_ context.Context, record content.Record) (*content.Record, error) {
	record.ID = "rec-1"
	f.inserted = append(f.inserted, record)
	return &record, nil
}

type fakeAccounts struct {
	user     *account.User
	consumed int
}

func (f *fakeAccounts) Get(_ context.Context, _ string) (*account.User, error) {
	return f.user, nil
}

func (f *fakeAccounts) ConsumeGeneration(_ context.Context, _, _ string) error {
	f.consumed++
	return nil
}

type fakeProvider struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeProvider) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.response}, nil
}

func (f *fakeProvider) Name() string { return "fake:model" }

func completeProfile() *profile.Profile {
	return &profile.Profile{
		ID:                 "profile-1",
		UserID:             "user-1",
		BusinessName:       "Acme Coaching",
		BusinessType:       "Coaching",
		Niche:              "Fitness",
		OfferStatement:     "We help busy dads get lean",
		ContentInterests:   "Training",
		TargetAudience:     "Busy dads",
		AudiencePains:      "No time",
		BusinessStory:      "Garage start",
		DesiredOutcome:     "Lose 10kg",
		CustomerObjections: "Too expensive",
		OfferStructure:     "12 weeks",
		USP:                "Accountability",
		ClientResults:      "300 wins",
		ClientCount:        "300+",
	}
}

func newTestService(provider *fakeProvider, accounts *fakeAccounts, sink *fakeContent) *Service {
	return &Service{
		Composer:  composer.New(rand.New(rand.NewSource(1))),
		Profiles:  &fakeProfiles{profile: completeProfile()},
		Knowledge: &fakeKnowledge{},
		Calendar:  &fakeCalendar{},
		Content:   sink,
		Accounts:  accounts,
		Provider:  provider,
		Logger:    logging.NewLogger(),
	}
}

func freeUser(used int) *account.User {
	return &account.User{ID: "user-1", SubscriptionTier: account.TierFree, GenerationsUsed: used}
}

func TestGenerateValidation(t *testing.T) {
	service := newTestService(&fakeProvider{response: "x"}, &fakeAccounts{user: freeUser(0)}, &fakeContent{})

	cases := []struct {
		name string
		req  Request
	}{
		{"unknown generator", Request{ProfileID: "profile-1", Generator: "podcast", Form: composer.FormState{Request: "x"}}},
		{"missing request", Request{ProfileID: "profile-1", Generator: composer.Email}},
		{"social post without platforms", Request{ProfileID: "profile-1", Generator: composer.SocialPost, Form: composer.FormState{Request: "x"}}},
		{"youtube length too short", Request{ProfileID: "profile-1", Generator: composer.YouTubeScript, Form: composer.FormState{Request: "x", VideoLength: 3}}},
		{"youtube length too long", Request{ProfileID: "profile-1", Generator: composer.YouTubeScript, Form: composer.FormState{Request: "x", VideoLength: 45}}},
		{"unknown niche", Request{ProfileID: "profile-1", Generator: composer.AdCopy, Form: composer.FormState{Request: "x", SelectedNiche: "Crypto"}}},
		{"unknown length bucket", Request{ProfileID: "profile-1", Generator: composer.SocialPost, Form: composer.FormState{Request: "x", Platforms: []string{"Instagram"}, Length: "gigantic"}}},
	}
	for _, tc := range cases {
		_, err := service.Generate(context.Background(), "user-1", tc.req)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestGenerateGuidelinesIgnoreNicheTags(t *testing.T) {
	provider := &fakeProvider{response: "copy"}
	service := newTestService(provider, &fakeAccounts{user: freeUser(0)}, &fakeContent{})
	service.Knowledge = &fakeKnowledge{items: []knowledge.Item{
		{
			TargetGenerator: "ad_copy",
			KnowledgeType:   composer.KnowledgeGuidelines,
			NicheTags:       []string{"Mindset"},
			Content:         "Open with the offer, close with urgency.",
		},
		{
			TargetGenerator: "ad_copy",
			KnowledgeType:   composer.KnowledgeExamples,
			NicheTags:       []string{"Mindset"},
			Content:         "Mindset example ad body.",
		},
	}}

	_, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.AdCopy,
		Form:      composer.FormState{Request: "promo"},
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}

	// The profile's niche is Fitness. Guidelines apply regardless of their
	// tags; examples tagged for another niche stay out.
	if !strings.Contains(provider.lastReq.Prompt, "Open with the offer, close with urgency.") {
		t.Error("guideline tagged for another niche should still reach the prompt")
	}
	if strings.Contains(provider.lastReq.Prompt, "Mindset example ad body.") {
		t.Error("example tagged for another niche should be filtered out")
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	service := newTestService(&fakeProvider{response: "x"}, &fakeAccounts{user: freeUser(account.FreeGenerationLimit)}, &fakeContent{})

	_, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.AdCopy,
		Form:      composer.FormState{Request: "promo"},
	})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestGenerateIncompleteProfile(t *testing.T) {
	service := newTestService(&fakeProvider{response: "x"}, &fakeAccounts{user: freeUser(0)}, &fakeContent{})
	incomplete := completeProfile()
	incomplete.Niche = ""
	service.Profiles = &fakeProfiles{profile: incomplete}

	_, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.AdCopy,
		Form:      composer.FormState{Request: "promo"},
	})
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestGenerateSocialPostEncodesAndTitles(t *testing.T) {
	provider := &fakeProvider{response: "{\n  \"caption\": \"Hey\",\n  \"hashtags\": [\"#fit\"],\n  \"call_to_action\": \"DM me\"\n}"}
	accounts := &fakeAccounts{user: freeUser(0)}
	sink := &fakeContent{}
	service := newTestService(provider, accounts, sink)

	longRequest := "a post about morning routines for busy dads"
	result, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.SocialPost,
		Form:      composer.FormState{Request: longRequest, Platforms: []string{"Instagram"}},
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}

	if provider.lastReq.Schema == nil {
		t.Error("social post should request a response schema")
	} else if provider.lastReq.Schema.Properties["caption"] == nil {
		t.Error("social post schema should include caption")
	}
	if provider.lastReq.MaxOutputTokens != 0 {
		t.Errorf("social posts should use the provider default budget, got %d", provider.lastReq.MaxOutputTokens)
	}

	if len(sink.inserted) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(sink.inserted))
	}
	record := sink.inserted[0]
	if record.Content != `{"caption":"Hey","call_to_action":"DM me","hashtags":["#fit"]}` {
		t.Errorf("social post content should be compact JSON, got %q", record.Content)
	}
	wantTitle := "Social Media Post for " + longRequest[:30] + "..."
	if record.Title != wantTitle {
		t.Errorf("title = %q, want %q", record.Title, wantTitle)
	}
	if record.PromptUsed != "Request: "+longRequest {
		t.Errorf("prompt_used = %q", record.PromptUsed)
	}
	if accounts.consumed != 1 {
		t.Errorf("expected 1 consumed generation, got %d", accounts.consumed)
	}
	if result.Classified.Kind != composer.KindSocialPost {
		t.Errorf("expected social post classification, got %v", result.Classified.Kind)
	}
}

func TestGenerateSequenceUnwraps(t *testing.T) {
	provider := &fakeProvider{response: `{"sequence":[{"slide_type":"hook","content":"Slide 1"},{"content":"Slide 2"}]}`}
	sink := &fakeContent{}
	service := newTestService(provider, &fakeAccounts{user: freeUser(0)}, sink)

	result, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.InstagramStory,
		Form:      composer.FormState{Request: "story about transformation"},
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}

	record := sink.inserted[0]
	if !strings.HasPrefix(record.Content, "[") {
		t.Errorf("sequence content should be a JSON array, got %q", record.Content)
	}
	if result.Classified.Kind != composer.KindSequence {
		t.Fatalf("expected sequence classification, got %v", result.Classified.Kind)
	}
	if len(result.Classified.Sequence) != 2 {
		t.Errorf("expected 2 sequence items, got %d", len(result.Classified.Sequence))
	}
}

func TestGenerateYouTubeCleansAndTitles(t *testing.T) {
	provider := &fakeProvider{response: "--- HOOK 1 ---\nStop doing cardio.\n**FINAL CHECKLIST INSTRUCTION**\nReal script line."}
	sink := &fakeContent{}
	service := newTestService(provider, &fakeAccounts{user: freeUser(0)}, sink)

	_, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.YouTubeScript,
		Form:      composer.FormState{Request: "cardio myths", VideoLength: 10},
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}

	if provider.lastReq.MaxOutputTokens != 10*tokensPerScriptMinute {
		t.Errorf("completion budget = %d, want %d for a 10 minute script", provider.lastReq.MaxOutputTokens, 10*tokensPerScriptMinute)
	}

	record := sink.inserted[0]
	if strings.Contains(record.Content, "--- HOOK") {
		t.Errorf("echoed hook markers should be stripped, got %q", record.Content)
	}
	if !strings.Contains(record.Content, "Real script line.") {
		t.Errorf("real content should survive cleaning, got %q", record.Content)
	}
	if !strings.HasPrefix(record.Title, "YouTube Script - ") {
		t.Errorf("youtube titles should use the dash separator, got %q", record.Title)
	}
}

func TestGenerateProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	service := newTestService(provider, &fakeAccounts{user: freeUser(0)}, &fakeContent{})

	_, err := service.Generate(context.Background(), "user-1", Request{
		ProfileID: "profile-1",
		Generator: composer.AdCopy,
		Form:      composer.FormState{Request: "promo"},
	})
	if err == nil || !strings.Contains(err.Error(), "llm generate") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}
