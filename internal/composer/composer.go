// Package composer assembles generation prompts from the business profile,
// curated knowledge, recently posted content, and the submitted form, and
// classifies raw model responses into renderable content.
package composer

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Truncation caps for recently posted content embedded in prompts.
const (
	maxRecentSocialPosts   = 10
	maxRecentYouTubePosts  = 3
	recentSocialCharLimit  = 500
	recentYouTubeCharLimit = 800
)

// Composer builds prompts. Example and hook selection is randomized, so
// the RNG is injectable for deterministic tests.
type Composer struct {
	rng *rand.Rand
}

// New returns a Composer. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Build assembles the full prompt for the given input.
func (c *Composer) Build(in Input) string {
	if in.Generator == YouTubeScript {
		return c.buildYouTube(in)
	}
	return c.buildStandard(in)
}

func (c *Composer) buildStandard(in Input) string {
	var b strings.Builder

	// 1. Role context, with the niche addendum appended in the same sentence flow.
	role, ok := roleContexts[in.Generator]
	if !ok {
		role = defaultRoleContext
	}
	b.WriteString(role)
	if niche := nicheRoleContexts[EffectiveNiche(in.Form, in.Profile)]; niche != "" {
		b.WriteString(" ")
		b.WriteString(niche)
	}

	if in.Generator.IsSequence() {
		b.WriteString("\nYour output for a sequence MUST be a JSON array of objects, with no text outside the array.")
	}

	// 2. General output constraints.
	b.WriteString("\n\n**CRITICAL GENERAL INSTRUCTION**\nDo NOT include any visual descriptions, image suggestions, or calls for visual elements in your output. Focus ONLY on providing pure text content without any emojis.")

	// 3. Business profile.
	writeProfileBlock(&b, in.Profile)

	// 4. Recently posted content.
	writePostedContentBlock(&b, in.RecentSocialPosts, in.RecentYouTubePosts)

	// 5. Platform targeting and length bounds (social posts only).
	if in.Generator == SocialPost && len(in.Form.Platforms) > 0 {
		b.WriteString("\n\n**CRITICAL: TARGET PLATFORMS**\nThis content is specifically for social media platforms. Tailor the content, tone, and format to match the best practices of engaging social media content with strong captions and storytelling.")
	}
	if in.Generator == SocialPost && in.Form.Length != "" {
		if limits, ok := lengthLimits[in.Form.Length]; ok {
			fmt.Fprintf(&b, "\n\n**CRITICAL: LENGTH REQUIREMENT**\nThe caption MUST be between %d and %d characters in length. This is a strict requirement - do not exceed or fall short of these limits.", limits.Min, limits.Max)
		}
	}

	// 6. Structure guidelines from the knowledge base.
	if in.Guidelines != "" {
		fmt.Fprintf(&b, "\n\n**CRITICAL STRUCTURE INSTRUCTION**\nFollow this structure when creating the content:\n%s", in.Guidelines)
	}

	// 7. Style reference: the user's own inspiration script wins, otherwise
	// one uniformly random niche-filtered example. Omitted when neither exists.
	if in.Form.InspirationScript != "" {
		writeStyleReference(&b, in.Form.InspirationScript)
	} else if len(in.Examples) > 0 {
		writeStyleReference(&b, in.Examples[c.rng.Intn(len(in.Examples))])
	}

	// 8. The raw form, pretty-printed JSON.
	fmt.Fprintf(&b, "\n\n**USER'S DETAILED REQUEST**\n%s", formJSON(in.Form))

	return b.String()
}

func writeProfileBlock(b *strings.Builder, p Profile) {
	fmt.Fprintf(b, `

**CONTEXT: BUSINESS PROFILE**
- Business Name: %s
- Business Type: %s
- Niche: %s
- Offer Statement: %s
- Content Interests: %s
- Target Audience: %s
- Audience Pains: %s
- Business Story: %s
- Desired Outcome: %s
- Customer Objections: %s
- Offer Structure: %s
- Unique Selling Proposition: %s
- Client Results: %s
- Client Count: %s
- Tone of Voice / Existing Content: %s`,
		orProvided(p.BusinessName),
		orProvided(p.BusinessType),
		orProvided(p.Niche),
		orProvided(p.OfferStatement),
		orProvided(p.ContentInterests),
		orProvided(p.TargetAudience),
		orProvided(p.AudiencePains),
		orProvided(p.BusinessStory),
		orProvided(p.DesiredOutcome),
		orProvided(p.CustomerObjections),
		orProvided(p.OfferStructure),
		orProvided(p.USP),
		orProvided(p.ClientResults),
		orProvided(p.ClientCount),
		orProvided(p.ExistingContentScripts))
}

func writePostedContentBlock(b *strings.Builder, social, youtube []string) {
	if len(social) > maxRecentSocialPosts {
		social = social[:maxRecentSocialPosts]
	}
	if len(youtube) > maxRecentYouTubePosts {
		youtube = youtube[:maxRecentYouTubePosts]
	}
	if len(social) == 0 && len(youtube) == 0 {
		return
	}

	b.WriteString("\n\n**CONTEXT: RECENTLY POSTED CONTENT**\nThis is content the user has recently posted and marked as published. Use this to understand their current messaging, topics, and style evolution:")

	if len(social) > 0 {
		fmt.Fprintf(b, "\n\n**Last %d Social Media Posts:**\n", len(social))
		for i, post := range social {
			fmt.Fprintf(b, "\nPost %d:\n%s\n", i+1, truncateWithEllipsis(post, recentSocialCharLimit))
		}
	}
	if len(youtube) > 0 {
		fmt.Fprintf(b, "\n\n**Last %d YouTube Scripts:**\n", len(youtube))
		for i, post := range youtube {
			fmt.Fprintf(b, "\nScript %d:\n%s\n", i+1, truncateWithEllipsis(post, recentYouTubeCharLimit))
		}
	}
}

func writeStyleReference(b *strings.Builder, script string) {
	fmt.Fprintf(b, `

**STYLE REFERENCE - FOR INSPIRATION ONLY**

⚠️ **IMPORTANT:**
The script below is from a DIFFERENT BUSINESS. Use it as INSPIRATION for style and structure, but DO NOT copy it directly.

**Use this script to understand:**
- The general tone and energy level
- How sentences flow and connect
- The approximate length and pacing
- The type of language used (formal vs casual)

**DO NOT copy:**
- Specific claims, features, or product details
- Exact phrases or sentences
- Any information not in your Business Profile above

**THE REFERENCE (For Inspiration Only):**
%s

**YOUR TASK:** Create original content about THIS business (from Business Profile above) that has a SIMILAR feel and style to the reference.`, script)
}

func formJSON(form FormState) string {
	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func orProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}

func truncateWithEllipsis(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
