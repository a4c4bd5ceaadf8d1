package composer

import (
	"encoding/json"
)

// ContentKind is the classified rendering shape of a model response.
type ContentKind string

const (
	KindPlainText  ContentKind = "plain_text"
	KindSocialPost ContentKind = "social_post"
	KindSequence   ContentKind = "sequence"
)

// SocialPostContent is a structured social post response.
type SocialPostContent struct {
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags,omitempty"`
	CallToAction string   `json:"call_to_action,omitempty"`
}

// SequenceItem is one entry of a sequence response. Body is the resolved
// main content; the optional fields surface when the model labeled them.
// Raw preserves the original item for callers that need more.
type SequenceItem struct {
	Body            string          `json:"body"`
	Subject         string          `json:"subject,omitempty"`
	Caption         string          `json:"caption,omitempty"`
	SlideType       string          `json:"slide_type,omitempty"`
	PostType        string          `json:"post_type,omitempty"`
	ImageSuggestion string          `json:"image_suggestion,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}

// Classified is the result of classifying a raw model response. Exactly
// one of Text, Post, or Sequence carries the payload, per Kind.
type Classified struct {
	Kind     ContentKind        `json:"kind"`
	Text     string             `json:"text,omitempty"`
	Post     *SocialPostContent `json:"post,omitempty"`
	Sequence []SequenceItem     `json:"sequence,omitempty"`
}

// Classify inspects a raw response and decides how it renders. Every
// input classifies: anything that is not a JSON array or a JSON object
// with a caption is plain text. Objects without a caption are
// pretty-printed so stray structured output still reads cleanly.
func Classify(raw string) Classified {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Classified{Kind: KindPlainText, Text: raw}
	}

	switch v := parsed.(type) {
	case []any:
		items := make([]SequenceItem, len(v))
		for i, elem := range v {
			items[i] = classifySequenceItem(elem)
		}
		return Classified{Kind: KindSequence, Sequence: items}
	case map[string]any:
		if caption, ok := v["caption"].(string); ok && caption != "" {
			return Classified{Kind: KindSocialPost, Post: decodeSocialPost(v)}
		}
		return Classified{Kind: KindPlainText, Text: prettyJSON(v)}
	default:
		// Scalars and null are not structured content.
		return Classified{Kind: KindPlainText, Text: raw}
	}
}

func classifySequenceItem(elem any) SequenceItem {
	switch v := elem.(type) {
	case string:
		return SequenceItem{Body: v}
	case map[string]any:
		item := SequenceItem{
			Subject:         stringField(v, "subject"),
			Caption:         stringField(v, "caption"),
			SlideType:       stringField(v, "slide_type"),
			PostType:        stringField(v, "post_type"),
			ImageSuggestion: stringField(v, "image_suggestion"),
		}
		if raw, err := json.Marshal(v); err == nil {
			item.Raw = raw
		}
		for _, key := range []string{"body", "content", "text"} {
			if body := stringField(v, key); body != "" {
				item.Body = body
				return item
			}
		}
		// No recognizable main field. Show the whole item.
		item.Body = prettyJSON(v)
		return item
	default:
		return SequenceItem{Body: prettyJSON(v)}
	}
}

func decodeSocialPost(v map[string]any) *SocialPostContent {
	post := &SocialPostContent{
		Caption:      stringField(v, "caption"),
		CallToAction: stringField(v, "call_to_action"),
	}
	if tags, ok := v["hashtags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				post.Hashtags = append(post.Hashtags, s)
			}
		}
	}
	return post
}

func stringField(v map[string]any, key string) string {
	s, _ := v[key].(string)
	return s
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
