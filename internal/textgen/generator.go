package textgen

import (
	"context"
	"log/slog"
	"strings"

	"postforge/internal/logging"
	"postforge/internal/services/llm"
)

const defaultMaxChars = 3000

// Completer is the surface of the text backend the generator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Draft is a generated post body ready to be saved as a unit.
type Draft struct {
	Domain  string
	Content string
	// Source records whether the body came from the backend or the canned
	// fallback catalogue.
	Source string
}

const (
	SourceBackend  = "llm"
	SourceFallback = "fallback"
)

// Generator produces LinkedIn post bodies, falling back to canned content
// when the text backend fails.
type Generator struct {
	client        Completer
	defaultDomain string
	maxChars      int
	logger        *slog.Logger
}

// NewGenerator constructs a Generator. client may be nil, in which case every
// generation uses fallback content.
func NewGenerator(client Completer, defaultDomain string, maxChars int, logger *slog.Logger) *Generator {
	if strings.TrimSpace(defaultDomain) == "" {
		defaultDomain = contentDomains[0]
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		client:        client,
		defaultDomain: defaultDomain,
		maxChars:      maxChars,
		logger:        logger.With(logging.String(logging.FieldComponent, "textgen")),
	}
}

// Generate produces a post body for the given prompt and domain. An empty
// domain selects the configured default; an empty prompt uses the domain's
// stock prompt template. Backend failures degrade to the fallback catalogue,
// so a draft is always returned.
func (g *Generator) Generate(ctx context.Context, prompt, domain string) Draft {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = g.defaultDomain
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = defaultPrompt(domain)
	}

	if g.client == nil {
		g.logger.Warn("text backend not configured, using fallback content",
			logging.String("domain", domain))
		return Draft{Domain: domain, Content: g.truncate(FallbackContent(domain)), Source: SourceFallback}
	}

	content, err := g.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		g.logger.Warn("text backend failed, using fallback content",
			logging.String("domain", domain),
			logging.Error(err))
		return Draft{Domain: domain, Content: g.truncate(FallbackContent(domain)), Source: SourceFallback}
	}

	body := strings.TrimSpace(llm.StripCodeFences(content))
	body = body + "\n\n" + strings.Join(HashtagsFor(domain), " ")
	g.logger.Info("post body generated",
		logging.String("domain", domain),
		logging.Int("chars", len(body)))
	return Draft{Domain: domain, Content: g.truncate(body), Source: SourceBackend}
}

// truncate enforces the LinkedIn body limit, reserving room for an ellipsis.
func (g *Generator) truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= g.maxChars {
		return content
	}
	return string(runes[:g.maxChars-3]) + "..."
}
