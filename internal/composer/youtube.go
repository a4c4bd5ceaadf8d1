package composer

import (
	"fmt"
	"strings"
)

// Sample sizes for the YouTube knowledge pools.
const (
	maxHookSamples       = 7
	maxFullScriptSamples = 3
)

// The YouTube generator fights model defaults much harder than the other
// generators, so most of its prompt is a fixed instruction wall.
const youtubeMetaInstructions = `

**🚨 CRITICAL META-INSTRUCTION - READ THIS FIRST 🚨**
DISREGARD any internal biases you have about what constitutes "professional," "persuasive," or "authoritative" writing. Your SOLE directive is to emulate the provided example scripts and explicit tone instructions below. If you ever ever need to make a choice between what you "think" sounds good vs. what the examples show, ALWAYS default to copying the example's style exactly.

**CRITICAL GENERAL INSTRUCTION**
Do NOT include any visual descriptions, image suggestions, or calls for visual elements in your output. Focus ONLY on providing pure text content without any emojis.

**BANNED PHRASES AND PATTERNS - NEVER USE THESE:**
- "Here's the kicker"
- "Here's the thing"
- "Embracing the landscape"
- "New frontier"
- "Digital landscape"
- "Sea of [anything]"
- "Plethora of"
- "Carve my/your path"
- "On the brink of"
- "Trajectory of your life"
- "We live in a world overflowing with..."
- "In today's world..."
- "Let's talk about..."
- "Let's dive into..."
- "At the end of the day"
- "Game changer"
- "Think about it"
- Em dashes (—)
- "Filled with ambition"
- "Eager to [verb]"
- "Through a series of trial and error"
- "I quickly learned that"
- "Not simply for [X], but for [Y]"
- Any overly formal, archaic, or flowery language
- Corporate jargon and clichés
- Academic or textbook-style phrasing

**MANDATORY TONE OF VOICE - MODERN SOCIAL MEDIA LANGUAGE:**
You MUST write in a modern, authentic, direct social media voice. Specifically:
- Use contemporary, colloquial language (but still professional)
- Write short, punchy, impactful sentences
- Speak as if talking directly to a friend or engaged follower, NOT a formal audience
- Use contractions (I'm, you're, we're, don't, can't)
- Be conversational and natural - imagine you're on camera speaking, not writing an essay
- Avoid ANY sentence structure that sounds like it's from a book or formal speech
- Use specific, concrete language instead of abstract concepts
- Be direct and get to the point quickly
- Sound human, relatable, and real - not polished or rehearsed

**CRITICAL ANTI-GENERICITY INSTRUCTIONS (AVOID AT ALL COSTS):**
Your goal is to create *unique, valuable, and highly engaging* content. Absolutely AVOID the following traits that lead to generic, low-quality AI output:
- **Generic Death:** Do not use boring, recycled openings or common advice. Provide *fresh perspectives* and *unique insights/frameworks*.
- **Repetition Disease:** Do not repeat the same message across multiple sections without progression or new information. Each section MUST build on the last.
- **Credibility Vacuum:** Your content MUST convey results, proof, authority, and demonstrated expertise. Avoid pure theory without practical grounding.
- **Value Wasteland:** Do not deliver platitudes or vague advice like "find your passion" or "be consistent." Provide *actionable steps, specific strategies, and concrete value*.
- **Engagement Killer:** Incorporate hooks, pattern interrupts, curiosity gaps, and strong reasons for viewers to keep watching. Your script MUST be compelling from start to finish.
- **Trust Destroyer:** Do not promise insights and deliver rehashed common knowledge. Ensure every piece of advice feels earned and specific to the business profile's expertise.
- **Algorithm Poison:** Create content that will naturally encourage high retention, shares, and platform promotion because of its *inherent quality and uniqueness*.

**Your content must feel personal, vulnerable where appropriate, and include specific systems or frameworks. It should deliver immediate value and integrate clear, effective calls-to-action seamlessly.**

**🎯 MANDATORY: CREATE UNIQUE FRAMEWORK/SYSTEM**
You MUST create or reference a specific, proprietary framework, system, or methodology. Examples:
- ❌ "Just be consistent and authentic"
- ✅ "The 3-Layer Authority System" or "Content Waterfall Method" or "Personal Media Company Framework"

Name it, explain its components, and make it feel like exclusive insider knowledge.

**💰 MANDATORY: INCLUDE SPECIFIC, CONCRETE RESULTS**
Always use SPECIFIC numbers and outcomes, never vague language:
- ❌ "Opened doors I never imagined" or "Changed everything"
- ✅ "Went from 0 to 50K followers in 8 months and landed my first $25K client"
- ✅ "Built a $13.8M business with a 2M person audience"
- ✅ "Generated 350K views on a single video using this exact method"

Use numbers from the business profile's Client Results wherever possible.

**🔥 MANDATORY: INCLUDE CONTRARIAN/UNIQUE ANGLE**
Take a strong, contrarian, or unique stance on something. Don't just agree with common wisdom:
- ❌ "Personal branding is important"
- ✅ "Everyone's teaching personal branding wrong. Here's why 'be authentic' is actually terrible advice"
- ✅ "The personal branding industry is lying to you about consistency"

**🚫 CRITICAL: PRODUCT MENTIONS = 5% MAX**
- Product/service mentions should be MAXIMUM 5% of total script
- NO dedicated sales sections
- Only soft, natural mentions like "I use a tool called [Product] to help with this"
- Focus 95% on VALUE DELIVERY, 5% on product
- If you create a product-focused section, you FAILED this instruction`

const youtubeTruthSource = `

**🚨 ABSOLUTE TRUTH SOURCE 🚨**
The Business Profile above is the ONLY source of truth for facts, features, and claims. You MUST:
- ONLY use product/service details from the Business Profile
- NEVER invent features or capabilities not listed above
- NEVER copy features from example scripts - those are different businesses!
- If an example mentions features X, Y, Z but the Business Profile doesn't - IGNORE THEM COMPLETELY

**MANDATORY: USE THESE SPECIFIC DETAILS IN YOUR SCRIPT:**
- You MUST reference or adapt the Business Story when building credibility
- You MUST cite SPECIFIC numbers from Client Results as proof points (extract actual numbers, revenue, follower counts, time frames)
- You MUST address Audience Pains directly with solutions
- You MUST incorporate the USP as a unique angle or contrarian take
- You MUST match the Tone of Voice from existing content
- You MUST create or reference a unique framework/system based on the business's expertise`

const youtubeNoExamplesFallback = `

**CRITICAL VALUE CREATION INSTRUCTION:**
No example scripts are available, so you MUST create extremely valuable, specific content by:
1. Drawing deeply from the Business Profile details above
2. Creating unique frameworks based on the business's expertise
3. Using the Client Results as case studies and proof points WITH SPECIFIC NUMBERS
4. Telling the Business Story in a compelling, credible way (using modern, conversational language)
5. Providing hyper-specific, actionable advice (not generic platitudes)
6. Building authority through demonstrated expertise and results
7. Writing in a natural, modern social media voice (review the TONE OF VOICE section above)
8. Taking a contrarian stance on something in your niche`

const youtubeFinalChecklist = `

**FINAL QUALITY CHECKLIST - YOUR SCRIPT MUST:**
✓ Open with a UNIQUE, MODERN hook with specific numbers/results (NOT "Let's talk about...")
✓ Use contemporary, conversational language throughout (NO archaic or overly formal phrases)
✓ Include at least 1-2 unique, NAMED frameworks or systems
✓ Reference SPECIFIC numbers from Client Results (follower counts, revenue, time frames)
✓ Tell personal stories that build credibility in a natural, relatable way
✓ Provide actionable steps (not motivational fluff or generic advice)
✓ Progress logically through NEW information in each section
✓ Include a contrarian take or unique angle on the topic
✓ Product mentions = 5% MAX of script (soft, natural mentions only)
✓ Create curiosity and engagement throughout
✓ Integrate natural, earned CTAs
✓ Sound like a real person speaking on camera, NOT like written content
✓ NEVER use any banned phrases listed above
✓ ONLY use facts, features, and claims from the Business Profile - NEVER from examples`

func (c *Composer) buildYouTube(in Input) string {
	var b strings.Builder

	role, ok := roleContexts[YouTubeScript]
	if !ok {
		role = defaultYouTubeRoleContext
	}
	b.WriteString(role)
	if niche := nicheRoleContexts[EffectiveNiche(in.Form, in.Profile)]; niche != "" {
		b.WriteString(" ")
		b.WriteString(niche)
	}

	b.WriteString(youtubeMetaInstructions)
	writeProfileBlock(&b, in.Profile)
	b.WriteString(youtubeTruthSource)
	writePostedContentBlock(&b, in.RecentSocialPosts, in.RecentYouTubePosts)

	if in.Guidelines != "" {
		fmt.Fprintf(&b, "\n\n**CRITICAL STRUCTURE INSTRUCTION**\nYou ABSOLUTELY MUST follow this structure strictly when creating the content. Deviations will result in unusable output:\n%s", in.Guidelines)
	}

	c.writeHookSection(&b, in)
	c.writeScriptReferenceSection(&b, in)

	fmt.Fprintf(&b, "\n\n**USER'S DETAILED REQUEST**\n%s", formJSON(in.Form))
	b.WriteString(youtubeFinalChecklist)

	return b.String()
}

// writeHookSection prefers the user's own hooks; otherwise it samples up
// to 7 distinct hooks from the knowledge pool. No section when neither exists.
func (c *Composer) writeHookSection(b *strings.Builder, in Input) {
	if strings.TrimSpace(in.Form.CustomHooks) != "" {
		fmt.Fprintf(b, `

**🪝 CRITICAL HOOK INSTRUCTION - USER PROVIDED HOOKS**
The user has provided specific hooks they want you to analyze and adapt. You MUST:
1. Read all provided hooks carefully
2. Analyze their structure, word choice, and psychological triggers
3. Choose the BEST ONE that fits this video topic
4. COPY its exact linguistic pattern and adapt it to this video

**User's Custom Hooks:**
%s

Remember: ANALYZE all of them, CHOOSE the best fit, then MIMIC its exact style for your opening.`, in.Form.CustomHooks)
		return
	}

	if len(in.Hooks) == 0 {
		return
	}

	hooks := c.sample(in.Hooks, maxHookSamples)
	var list strings.Builder
	for i, hook := range hooks {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "\n--- HOOK %d ---\n%s\n", i+1, hook)
	}

	fmt.Fprintf(b, `

**🪝 CRITICAL HOOK INSTRUCTION - KNOWLEDGE BASE HOOKS**
Below are %d high-performing hooks from your niche. You MUST:
1. Read ALL of them carefully
2. Analyze which one has the:
   - Strongest curiosity gap
   - Best match for this video topic
   - Most authentic and modern language
   - Clearest value proposition
3. Choose the BEST ONE for this video
4. COPY its exact linguistic pattern, sentence structure, and psychological triggers
5. Adapt only the specific facts to match this video's topic

**DO NOT:**
- Blend multiple hooks together
- Create something "new" from scratch
- Use your default formal writing style

**YOU MUST:**
- Pick ONE best hook
- Mimic its exact style and structure
- Make it feel like that hook wrote about THIS topic

**The %d High-Performing Hooks:**
%s

Remember: CHOOSE ONE, COPY its style EXACTLY, adapt the content to this video.`, len(hooks), len(hooks), list.String())
}

// writeScriptReferenceSection mirrors the standard style reference but
// samples up to 3 full scripts, and falls back to a value-creation
// instruction when no examples exist at all.
func (c *Composer) writeScriptReferenceSection(b *strings.Builder, in Input) {
	if in.Form.InspirationScript != "" {
		fmt.Fprintf(b, `

**🎯 STYLE REFERENCE - FOR INSPIRATION ONLY 🎯**

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

**YOUR TASK:** Create original content about THIS business (from Business Profile above) that has a SIMILAR feel and style to the reference.`, in.Form.InspirationScript)
		return
	}

	if len(in.FullScripts) == 0 {
		b.WriteString(youtubeNoExamplesFallback)
		return
	}

	scripts := c.sample(in.FullScripts, maxFullScriptSamples)
	var list strings.Builder
	for i, script := range scripts {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "\n--- REFERENCE %d ---\n%s\n", i+1, script)
	}

	fmt.Fprintf(b, `

**🎯 STYLE REFERENCE - FOR INSPIRATION ONLY 🎯**

⚠️ **IMPORTANT:**
The scripts below are from DIFFERENT BUSINESSES. Use them as INSPIRATION for style and structure, but DO NOT copy them directly.

**Use these scripts to understand:**
- The general tone and energy level
- How sentences flow and connect
- The approximate length and pacing
- The type of language used (formal vs casual)

**DO NOT copy:**
- Specific claims, features, or product details
- Exact phrases or sentences
- Any information not in your Business Profile above

**The %d Style References (For Inspiration Only):**
%s

**YOUR TASK:** Create original content about THIS business (from Business Profile above) that has a SIMILAR feel and style to these references.`, len(scripts), list.String())
}

// CleanScript strips prompt echoes from a generated YouTube script:
// sample markers, checklist lines, and bolded instruction headers that
// models occasionally parrot back.
func CleanScript(script string) string {
	lines := strings.Split(script, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--- EXAMPLE") ||
			strings.HasPrefix(trimmed, "--- HOOK") ||
			strings.HasPrefix(trimmed, "--- TEMPLATE") ||
			strings.HasPrefix(trimmed, "--- REFERENCE") {
			continue
		}
		if strings.HasPrefix(trimmed, "FINAL QUALITY CHECKLIST") ||
			strings.HasPrefix(trimmed, "YOUR SCRIPT MUST") ||
			strings.HasPrefix(trimmed, "✓") {
			continue
		}
		if strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && isEchoedHeader(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isEchoedHeader(line string) bool {
	header := strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
	for _, marker := range []string{
		"INSTRUCTION", "CONTEXT", "MANDATORY", "TRUTH SOURCE", "TASK",
		"WHAT TO COPY", "WHAT TO ABSOLUTELY IGNORE", "NOW CREATE YOUR SCRIPT", "CRITICAL",
	} {
		if strings.Contains(header, marker) {
			return true
		}
	}
	return false
}
