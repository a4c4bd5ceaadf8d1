package composer

import (
	"math/rand"
	"strings"
	"testing"
)

func testProfile() Profile {
	return Profile{
		BusinessName:           "Acme Coaching",
		BusinessType:           "Coaching",
		Niche:                  "Fitness",
		OfferStatement:         "12-week transformation program",
		TargetAudience:         "Busy professionals",
		AudiencePains:          "No time to train",
		ClientResults:          "120 clients lost 10kg on average",
		ExistingContentScripts: "Short punchy reels",
	}
}

func newTestComposer() *Composer {
	return New(rand.New(rand.NewSource(1)))
}

func sectionOrder(t *testing.T, prompt string, sections ...string) {
	t.Helper()
	last := -1
	for _, section := range sections {
		idx := strings.Index(prompt, section)
		if idx < 0 {
			t.Fatalf("prompt missing section %q", section)
		}
		if idx < last {
			t.Fatalf("section %q out of order", section)
		}
		last = idx
	}
}

func TestBuildStandardSectionOrder(t *testing.T) {
	c := newTestComposer()
	prompt := c.Build(Input{
		Generator:         SocialPost,
		Profile:           testProfile(),
		Form:              FormState{Request: "Post about morning routines", Platforms: []string{"Instagram"}, Length: "short"},
		Guidelines:        "Hook first, value second, CTA last.",
		Examples:          []string{"Example script A"},
		RecentSocialPosts: []string{"Yesterday's post"},
	})

	if !strings.HasPrefix(prompt, roleContexts[SocialPost]) {
		t.Fatalf("prompt does not start with the social post role context")
	}
	sectionOrder(t, prompt,
		"**CRITICAL GENERAL INSTRUCTION**",
		"**CONTEXT: BUSINESS PROFILE**",
		"**CONTEXT: RECENTLY POSTED CONTENT**",
		"**CRITICAL: TARGET PLATFORMS**",
		"**CRITICAL: LENGTH REQUIREMENT**",
		"**CRITICAL STRUCTURE INSTRUCTION**",
		"**STYLE REFERENCE - FOR INSPIRATION ONLY**",
		"**USER'S DETAILED REQUEST**",
	)
}

func TestBuildStandardNicheRoleContext(t *testing.T) {
	c := newTestComposer()
	profile := testProfile()

	prompt := c.Build(Input{Generator: SocialPost, Profile: profile, Form: FormState{Request: "r"}})
	want := roleContexts[SocialPost] + " " + nicheRoleContexts["Fitness"]
	if !strings.HasPrefix(prompt, want) {
		t.Fatalf("expected profile niche role context appended")
	}

	// Form override wins over the profile niche.
	prompt = c.Build(Input{Generator: SocialPost, Profile: profile, Form: FormState{Request: "r", SelectedNiche: "Mindset"}})
	if !strings.Contains(prompt, nicheRoleContexts["Mindset"]) {
		t.Fatalf("expected selected niche role context")
	}
	if strings.Contains(prompt, nicheRoleContexts["Fitness"]) {
		t.Fatalf("profile niche context should be replaced by the override")
	}

	// Unknown niche appends nothing.
	prompt = c.Build(Input{Generator: SocialPost, Profile: profile, Form: FormState{Request: "r", SelectedNiche: "Gardening"}})
	if !strings.HasPrefix(prompt, roleContexts[SocialPost]+"\n") {
		t.Fatalf("unknown niche should leave the base role context bare")
	}
}

func TestBuildStandardSequenceInstruction(t *testing.T) {
	c := newTestComposer()
	const instruction = "Your output for a sequence MUST be a JSON array of objects, with no text outside the array."

	for _, g := range []GeneratorType{InstagramStory, Email} {
		prompt := c.Build(Input{Generator: g, Profile: testProfile(), Form: FormState{Request: "r"}})
		if !strings.Contains(prompt, instruction) {
			t.Fatalf("%s: missing sequence instruction", g)
		}
	}
	for _, g := range []GeneratorType{SocialPost, AdCopy, SalesPage} {
		prompt := c.Build(Input{Generator: g, Profile: testProfile(), Form: FormState{Request: "r"}})
		if strings.Contains(prompt, instruction) {
			t.Fatalf("%s: unexpected sequence instruction", g)
		}
	}
}

func TestBuildStandardProfilePlaceholders(t *testing.T) {
	c := newTestComposer()
	prompt := c.Build(Input{Generator: AdCopy, Profile: Profile{BusinessName: "Acme"}, Form: FormState{Request: "r"}})

	if !strings.Contains(prompt, "- Business Name: Acme") {
		t.Fatalf("expected business name rendered")
	}
	if !strings.Contains(prompt, "- Business Type: Not provided") {
		t.Fatalf("expected placeholder for missing business type")
	}
	if !strings.Contains(prompt, "- Tone of Voice / Existing Content: Not provided") {
		t.Fatalf("expected placeholder for missing tone of voice")
	}
}

func TestBuildStandardLengthBuckets(t *testing.T) {
	c := newTestComposer()
	cases := map[string]string{
		"very_short": "between 85 and 100 characters",
		"short":      "between 298 and 350 characters",
		"medium":     "between 595 and 700 characters",
		"long":       "between 1190 and 1400 characters",
		"very_long":  "between 2380 and 2800 characters",
	}
	for bucket, want := range cases {
		prompt := c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r", Length: bucket}})
		if !strings.Contains(prompt, want) {
			t.Fatalf("bucket %s: missing %q", bucket, want)
		}
	}

	// Unknown bucket adds no length section.
	prompt := c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r", Length: "gigantic"}})
	if strings.Contains(prompt, "LENGTH REQUIREMENT") {
		t.Fatalf("unknown bucket should not emit a length requirement")
	}

	// Length only applies to social posts.
	prompt = c.Build(Input{Generator: AdCopy, Profile: testProfile(), Form: FormState{Request: "r", Length: "short"}})
	if strings.Contains(prompt, "LENGTH REQUIREMENT") {
		t.Fatalf("length requirement leaked into a non-social generator")
	}
}

func TestBuildStandardPlatformsOnlyForSocialPost(t *testing.T) {
	c := newTestComposer()
	prompt := c.Build(Input{Generator: Email, Profile: testProfile(), Form: FormState{Request: "r", Platforms: []string{"Instagram"}}})
	if strings.Contains(prompt, "TARGET PLATFORMS") {
		t.Fatalf("platform section leaked into a non-social generator")
	}

	prompt = c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r"}})
	if strings.Contains(prompt, "TARGET PLATFORMS") {
		t.Fatalf("platform section emitted without platforms")
	}
}

func TestBuildStandardStyleReference(t *testing.T) {
	c := newTestComposer()

	// Inspiration script wins over knowledge examples.
	prompt := c.Build(Input{
		Generator: SocialPost,
		Profile:   testProfile(),
		Form:      FormState{Request: "r", InspirationScript: "my own script"},
		Examples:  []string{"kb example"},
	})
	if !strings.Contains(prompt, "my own script") {
		t.Fatalf("expected inspiration script in prompt")
	}
	if strings.Contains(prompt, "kb example") {
		t.Fatalf("knowledge example should be skipped when inspiration is set")
	}

	// One example is chosen from the pool.
	prompt = c.Build(Input{
		Generator: SocialPost,
		Profile:   testProfile(),
		Form:      FormState{Request: "r"},
		Examples:  []string{"ex-one", "ex-two", "ex-three"},
	})
	count := 0
	for _, ex := range []string{"ex-one", "ex-two", "ex-three"} {
		if strings.Contains(prompt, ex) {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one example in prompt, got %d", count)
	}

	// Neither inspiration nor examples: section is omitted entirely.
	prompt = c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r"}})
	if strings.Contains(prompt, "STYLE REFERENCE") {
		t.Fatalf("style reference emitted with nothing to reference")
	}
}

func TestBuildStandardStyleReferenceSampling(t *testing.T) {
	c := newTestComposer()

	// A pool of one always selects the sole example.
	for i := 0; i < 20; i++ {
		prompt := c.Build(Input{
			Generator: SocialPost,
			Profile:   testProfile(),
			Form:      FormState{Request: "r"},
			Examples:  []string{"only-example"},
		})
		if !strings.Contains(prompt, "only-example") {
			t.Fatalf("run %d: sole example not selected", i)
		}
	}

	// A bigger pool varies across builds, roughly uniformly.
	examples := []string{"ex-a", "ex-b", "ex-c", "ex-d"}
	seen := make(map[string]int)
	for i := 0; i < 200; i++ {
		prompt := c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r"}, Examples: examples})
		for _, ex := range examples {
			if strings.Contains(prompt, ex) {
				seen[ex]++
			}
		}
	}
	for _, ex := range examples {
		n := seen[ex]
		if n == 0 {
			t.Errorf("example %s never selected across 200 builds", ex)
		}
		if n < 20 || n > 80 {
			t.Errorf("example %s selected %d of 200 builds, expected roughly uniform", ex, n)
		}
	}
}

func TestBuildStandardPostedContent(t *testing.T) {
	c := newTestComposer()

	long := strings.Repeat("a", 600)
	prompt := c.Build(Input{
		Generator:          SocialPost,
		Profile:            testProfile(),
		Form:               FormState{Request: "r"},
		RecentSocialPosts:  []string{long},
		RecentYouTubePosts: []string{strings.Repeat("b", 900)},
	})
	if !strings.Contains(prompt, strings.Repeat("a", 500)+"...") {
		t.Fatalf("social post not truncated to 500 chars")
	}
	if strings.Contains(prompt, strings.Repeat("a", 501)) {
		t.Fatalf("social post exceeded 500 chars")
	}
	if !strings.Contains(prompt, strings.Repeat("b", 800)+"...") {
		t.Fatalf("youtube script not truncated to 800 chars")
	}
	if !strings.Contains(prompt, "**Last 1 Social Media Posts:**") {
		t.Fatalf("missing social posts header")
	}
	if !strings.Contains(prompt, "**Last 1 YouTube Scripts:**") {
		t.Fatalf("missing youtube scripts header")
	}

	// Short content passes through untouched.
	prompt = c.Build(Input{
		Generator:         SocialPost,
		Profile:           testProfile(),
		Form:              FormState{Request: "r"},
		RecentSocialPosts: []string{"short post"},
	})
	if !strings.Contains(prompt, "short post") || strings.Contains(prompt, "short post...") {
		t.Fatalf("short post should not be truncated")
	}

	// No posted content, no section.
	prompt = c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r"}})
	if strings.Contains(prompt, "RECENTLY POSTED CONTENT") {
		t.Fatalf("posted content section emitted with no posts")
	}

	// Callers pass capped slices, but the builder enforces the caps too.
	posts := make([]string, 15)
	for i := range posts {
		posts[i] = "post"
	}
	prompt = c.Build(Input{Generator: SocialPost, Profile: testProfile(), Form: FormState{Request: "r"}, RecentSocialPosts: posts})
	if !strings.Contains(prompt, "**Last 10 Social Media Posts:**") {
		t.Fatalf("expected social posts capped at 10")
	}
}

func TestBuildStandardFormJSON(t *testing.T) {
	c := newTestComposer()
	prompt := c.Build(Input{
		Generator: SocialPost,
		Profile:   testProfile(),
		Form:      FormState{Request: "launch post", Platforms: []string{"Instagram", "TikTok"}, Length: "short"},
	})
	if !strings.Contains(prompt, `"request": "launch post"`) {
		t.Fatalf("form request missing from serialized form")
	}
	if !strings.Contains(prompt, `"Instagram",`) {
		t.Fatalf("platforms missing from serialized form")
	}
}

func TestEffectiveNiche(t *testing.T) {
	p := Profile{Niche: "Fitness"}
	if got := EffectiveNiche(FormState{}, p); got != "Fitness" {
		t.Fatalf("expected profile niche, got %q", got)
	}
	if got := EffectiveNiche(FormState{SelectedNiche: "Mindset"}, p); got != "Mindset" {
		t.Fatalf("expected form override, got %q", got)
	}
}

func TestFilterByNiche(t *testing.T) {
	items := []KnowledgeItem{
		{Name: "universal", Content: "u"},
		{Name: "fitness", NicheTags: []string{"Fitness"}, Content: "f"},
		{Name: "mindset", NicheTags: []string{"Mindset"}, Content: "m"},
		{Name: "both", NicheTags: []string{"Fitness", "Mindset"}, Content: "b"},
	}

	got := FilterByNiche(items, "Fitness")
	if len(got) != 3 {
		t.Fatalf("expected 3 items for Fitness, got %d", len(got))
	}
	for _, item := range got {
		if item.Name == "mindset" {
			t.Fatalf("mindset item leaked into Fitness filter")
		}
	}

	// Unknown niche still keeps universal items.
	got = FilterByNiche(items, "Gardening")
	if len(got) != 1 || got[0].Name != "universal" {
		t.Fatalf("expected only the universal item, got %d", len(got))
	}
}

func TestGeneratorTypeHelpers(t *testing.T) {
	if !SocialPost.Valid() || GeneratorType("bogus").Valid() {
		t.Fatalf("validity check broken")
	}
	if !InstagramStory.IsSequence() || !Email.IsSequence() {
		t.Fatalf("sequence generators misclassified")
	}
	if SocialPost.IsSequence() || YouTubeScript.IsSequence() {
		t.Fatalf("non-sequence generators misclassified")
	}
	if Email.Title() != "Funnel Strategy" {
		t.Fatalf("unexpected title %q", Email.Title())
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	c := newTestComposer()
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	got := c.sample(pool, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 samples, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("duplicate sample %q", s)
		}
		seen[s] = true
	}

	// Requesting more than the pool returns the whole pool.
	got = c.sample(pool[:2], 7)
	if len(got) != 2 {
		t.Fatalf("expected pool-sized sample, got %d", len(got))
	}
}
