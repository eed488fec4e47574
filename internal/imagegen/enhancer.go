package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"postforge/internal/logging"
	"postforge/internal/services/llm"
)

// JSONCompleter is the surface of the text backend the enhancer needs.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CardContent is the text placed on a generated card.
type CardContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Hashtags string `json:"hashtags"`
	Theme    string `json:"theme"`
}

const enhancerSystemPrompt = "You are a professional LinkedIn content designer. " +
	"Always respond with valid JSON only."

func enhancerPrompt(content CardContent) string {
	return fmt.Sprintf(`You are a creative designer for LinkedIn posts. Given this information:

Title: %q
Subtitle: %q
Theme: %s

Please suggest:
1. An improved, more engaging title (max 5 words, professional)
2. A catchy subtitle (max 7 words)
3. Relevant hashtags (2-3 hashtags)
4. Best color theme (choose from: ai, cybersecurity, tech, business, cloud)

Respond in this exact JSON format:
{
  "title": "improved title here",
  "subtitle": "catchy subtitle here",
  "hashtags": "#Hashtag1 #Hashtag2",
  "theme": "theme_name"
}`, content.Title, content.Subtitle, content.Theme)
}

// enhance asks the backend to refine the card text. Any failure returns the
// input unchanged; card generation never depends on the backend being up.
func enhance(ctx context.Context, client JSONCompleter, content CardContent, logger *slog.Logger) CardContent {
	if client == nil {
		return content
	}
	raw, err := client.CompleteJSON(ctx, enhancerSystemPrompt, enhancerPrompt(content))
	if err != nil {
		logger.Warn("card enhancement failed, using derived text",
			logging.Error(err))
		return content
	}
	var enhanced CardContent
	if err := llm.DecodeJSON(raw, &enhanced); err != nil {
		logger.Warn("card enhancement returned unusable payload, using derived text",
			logging.Error(err))
		return content
	}
	merged := content
	if title := strings.TrimSpace(enhanced.Title); title != "" {
		merged.Title = title
	}
	if subtitle := strings.TrimSpace(enhanced.Subtitle); subtitle != "" {
		merged.Subtitle = subtitle
	}
	if hashtags := strings.TrimSpace(enhanced.Hashtags); hashtags != "" {
		merged.Hashtags = hashtags
	}
	if ValidTheme(enhanced.Theme) {
		merged.Theme = strings.ToLower(strings.TrimSpace(enhanced.Theme))
	}
	return merged
}
