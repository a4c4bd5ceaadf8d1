package composer

// GeneratorType identifies one of the content generators.
type GeneratorType string

const (
	SocialPost     GeneratorType = "social_post"
	InstagramStory GeneratorType = "instagram_story"
	Email          GeneratorType = "email"
	AdCopy         GeneratorType = "ad_copy"
	SalesPage      GeneratorType = "sales_page"
	YouTubeScript  GeneratorType = "youtube_script"
)

var generatorTitles = map[GeneratorType]string{
	SocialPost:     "Social Media Post",
	InstagramStory: "Instagram Story Sequence",
	Email:          "Funnel Strategy",
	AdCopy:         "Advertisement Copy",
	SalesPage:      "Sales Page",
	YouTubeScript:  "YouTube Script",
}

// Valid reports whether g names a known generator.
func (g GeneratorType) Valid() bool {
	_, ok := generatorTitles[g]
	return ok
}

// IsSequence reports whether g produces a JSON array of items
// rather than a single piece of content.
func (g GeneratorType) IsSequence() bool {
	return g == InstagramStory || g == Email
}

// Title returns the user-facing generator name.
func (g GeneratorType) Title() string {
	if t, ok := generatorTitles[g]; ok {
		return t
	}
	return string(g)
}

// Niches are the supported business niches. Knowledge items tagged with a
// niche only surface for profiles (or form overrides) in that niche.
var Niches = []string{
	"General Online Business",
	"Info Products",
	"Startups & Tech",
	"Fitness",
	"Mindset",
	"Health & Wellness",
	"Lifestyle & Personal Brand",
}

// ValidNiche reports whether name is a supported niche.
func ValidNiche(name string) bool {
	for _, n := range Niches {
		if n == name {
			return true
		}
	}
	return false
}

// Profile carries the business profile fields referenced by prompts.
type Profile struct {
	BusinessName           string
	BusinessType           string
	Niche                  string
	OfferStatement         string
	ContentInterests       string
	TargetAudience         string
	AudiencePains          string
	BusinessStory          string
	DesiredOutcome         string
	CustomerObjections     string
	OfferStructure         string
	USP                    string
	ClientResults          string
	ClientCount            string
	ExistingContentScripts string
}

// FormState is the generator form exactly as submitted. It is serialized
// verbatim into the USER'S DETAILED REQUEST section, so field names here
// are the wire names the model sees.
type FormState struct {
	Request           string   `json:"request"`
	SelectedNiche     string   `json:"selected_niche,omitempty"`
	InspirationScript string   `json:"inspiration_script,omitempty"`
	CustomHooks       string   `json:"custom_hooks,omitempty"`
	Platforms         []string `json:"platforms,omitempty"`
	Length            string   `json:"length,omitempty"`
	CTA               string   `json:"cta,omitempty"`
	PostFormat        string   `json:"post_format,omitempty"`
	EmailType         string   `json:"email_type,omitempty"`
	Goal              string   `json:"goal,omitempty"`
	NumItems          string   `json:"num_items,omitempty"`
	AdType            string   `json:"ad_type,omitempty"`
	Objections        string   `json:"objections,omitempty"`
	Testimonials      string   `json:"testimonials,omitempty"`
	HeadlineIdeas     string   `json:"headline_ideas,omitempty"`
	KeyPoints         string   `json:"key_points,omitempty"`
	VideoLength       int      `json:"video_length,omitempty"`
}

// KnowledgeItem is a curated knowledge base entry fed into prompts.
type KnowledgeItem struct {
	Name            string
	TargetGenerator GeneratorType
	KnowledgeType   string
	ExampleType     string
	NicheTags       []string
	Content         string
}

// Knowledge types and example subtypes.
const (
	KnowledgeGuidelines = "guidelines"
	KnowledgeExamples   = "examples"

	ExampleFullScript = "full_script"
	ExampleHook       = "hook"
)

// Input is everything a single prompt build needs. Knowledge and posted
// content are loaded by the caller so the builder stays pure.
type Input struct {
	Generator GeneratorType
	Profile   Profile
	Form      FormState

	// Guidelines is the content of the first guidelines item, or empty.
	Guidelines string
	// Examples are niche-filtered example contents for standard generators.
	Examples []string
	// FullScripts and Hooks are the niche-filtered pools for YouTube builds.
	FullScripts []string
	Hooks       []string

	// Recently posted calendar content, newest first, already capped
	// by the caller (10 social, 3 YouTube).
	RecentSocialPosts  []string
	RecentYouTubePosts []string
}

// EffectiveNiche resolves the niche used for knowledge filtering and role
// context: the form override wins, otherwise the profile niche.
func EffectiveNiche(form FormState, profile Profile) string {
	if form.SelectedNiche != "" {
		return form.SelectedNiche
	}
	return profile.Niche
}

// FilterByNiche keeps items that are untagged (universal) or tagged with
// the given niche.
func FilterByNiche(items []KnowledgeItem, niche string) []KnowledgeItem {
	filtered := make([]KnowledgeItem, 0, len(items))
	for _, item := range items {
		if len(item.NicheTags) == 0 {
			filtered = append(filtered, item)
			continue
		}
		for _, tag := range item.NicheTags {
			if tag == niche {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// Contents extracts the content strings from a knowledge slice.
func Contents(items []KnowledgeItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Content
	}
	return out
}
