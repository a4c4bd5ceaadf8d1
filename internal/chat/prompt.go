package chat

import (
	"fmt"
	"strings"
	"time"

	"kwallo/internal/calendar"
	"kwallo/internal/composer"
)

// dateLayout is the human-readable form the assistant reasons about,
// e.g. "Monday, June 2, 2025".
const dateLayout = "Monday, January 2, 2006"

const (
	socialPreviewLimit  = 500
	youtubePreviewLimit = 800
)

// Guideline is a strategy guideline labeled with the generator it targets.
type Guideline struct {
	Target  string
	Content string
}

// PromptInput is everything one assistant turn needs. Calendar posts are
// the 14-day window around today (last 7 days plus next 7), date descending.
type PromptInput struct {
	Profile      composer.Profile
	Guidelines   []Guideline
	SocialPosts  []calendar.Post
	YouTubePosts []calendar.Post
	History      []Message
	Message      string
	Today        time.Time
}

// BuildPrompt assembles the assistant prompt: role, current date, all
// strategy guidelines, the business profile, the calendar window with
// posted/scheduled status labels, the transcript, and the new message.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	todayStr := in.Today.Format(dateLayout)

	b.WriteString(`You are KWALLO AI, a helpful content strategy assistant specializing in social media content, personal branding, and digital marketing.

**CRITICAL INSTRUCTION: Do NOT include any visual descriptions, image suggestions, or calls for visual elements in your output. Focus ONLY on providing pure text content.**

**CURRENT DATE: ` + todayStr + `**
Use this date as a reference when discussing the user's content calendar and posting schedule.

**CONTEXT: Creator's Content Strategy Guidelines**
`)
	b.WriteString(guidelinesText(in.Guidelines))

	p := in.Profile
	b.WriteString("\n\n**CONTEXT: User's Business Profile:**\n")
	b.WriteString("- Business Name: " + orProvided(p.BusinessName) + "\n")
	b.WriteString("- Business Type: " + orProvided(p.BusinessType) + "\n")
	b.WriteString("- Niche: " + orProvided(p.Niche) + "\n")
	b.WriteString("- Offer Statement: " + orProvided(p.OfferStatement) + "\n")
	b.WriteString("- Content Interests: " + orProvided(p.ContentInterests) + "\n")
	b.WriteString("- Target Audience: " + orProvided(p.TargetAudience) + "\n")
	b.WriteString("- Audience Pains: " + orProvided(p.AudiencePains) + "\n")
	b.WriteString("- Business Story: " + orProvided(p.BusinessStory) + "\n")
	b.WriteString("- Desired Outcome: " + orProvided(p.DesiredOutcome) + "\n")
	b.WriteString("- Customer Objections: " + orProvided(p.CustomerObjections) + "\n")
	b.WriteString("- Offer Structure: " + orProvided(p.OfferStructure) + "\n")
	b.WriteString("- Unique Selling Proposition: " + orProvided(p.USP) + "\n")
	b.WriteString("- Client Results: " + orProvided(p.ClientResults) + "\n")
	b.WriteString("- Client Count: " + orProvided(p.ClientCount) + "\n")
	b.WriteString("- Tone of Voice / Existing Content: " + orProvided(p.ExistingContentScripts))

	writeCalendarBlock(&b, in.SocialPosts, in.YouTubePosts)

	b.WriteString("\n\n**Conversation History:**\n")
	transcript := make([]string, 0, len(in.History))
	for _, m := range in.History {
		transcript = append(transcript, m.Role+": "+m.Content)
	}
	b.WriteString(strings.Join(transcript, "\n"))

	b.WriteString("\n\n**Current User Message:**\n")
	b.WriteString(in.Message)

	b.WriteString("\n\nPlease respond as a helpful AI content assistant. Provide specific, actionable advice based on the user's business profile, the content strategy guidelines, and their content calendar above. When user asks about \"posted\" content, only reference items marked as [POSTED]. When discussing dates, remember that today is " + todayStr + ".")

	return b.String()
}

func guidelinesText(guidelines []Guideline) string {
	parts := make([]string, 0, len(guidelines))
	for _, g := range guidelines {
		parts = append(parts, fmt.Sprintf("**%s Guidelines:**\n%s", g.Target, g.Content))
	}
	return strings.Join(parts, "\n\n")
}

func writeCalendarBlock(b *strings.Builder, social, youtube []calendar.Post) {
	if len(social) == 0 && len(youtube) == 0 {
		return
	}

	b.WriteString(`

**CONTEXT: CONTENT CALENDAR (Last 7 Days + Next 7 Days)**
This is content from the user's content calendar. Pay close attention to the STATUS of each post:
- **[POSTED]** = Already published/went live (user marked it as "posted")
- **[SCHEDULED]** = Not yet published, planned for future
When user asks about "posted" content, ONLY consider items marked as [POSTED].`)

	if len(social) > 0 {
		fmt.Fprintf(b, "\n\n**Social Media Posts in Calendar (%d total):**\n", len(social))
		for idx, post := range social {
			writeCalendarEntry(b, post, "Post", idx+1, socialPreviewLimit)
		}
	}
	if len(youtube) > 0 {
		fmt.Fprintf(b, "\n\n**YouTube Scripts in Calendar (%d total):**\n", len(youtube))
		for idx, post := range youtube {
			writeCalendarEntry(b, post, "Script", idx+1, youtubePreviewLimit)
		}
	}
}

func writeCalendarEntry(b *strings.Builder, post calendar.Post, kind string, ordinal, previewLimit int) {
	statusLabel := "[SCHEDULED]"
	if post.Status == calendar.StatusPosted {
		statusLabel = "[POSTED]"
	}
	fmt.Fprintf(b, "\n%s %s %d (%s)", statusLabel, kind, ordinal, post.Date)
	if post.Title != "" {
		b.WriteString(" - " + post.Title)
	}
	b.WriteString(":\n")
	preview := post.Content
	runes := []rune(preview)
	if len(runes) > previewLimit {
		b.WriteString(string(runes[:previewLimit]) + "...")
	} else {
		b.WriteString(preview)
	}
	b.WriteString("\n")
}

func orProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
