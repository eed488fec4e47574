package textgen_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"postforge/internal/textgen"
)

type stubCompleter struct {
	content string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

func TestGenerateAppendsDomainHashtags(t *testing.T) {
	stub := &stubCompleter{content: "Cloud cost optimization is having a moment."}
	gen := textgen.NewGenerator(stub, "", 3000, nil)

	draft := gen.Generate(context.Background(), "", "Cloud Computing Solutions")
	if draft.Source != textgen.SourceBackend {
		t.Fatalf("expected backend source, got %q", draft.Source)
	}
	if !strings.Contains(draft.Content, "#CloudComputing") {
		t.Fatalf("expected cloud hashtags appended, got %q", draft.Content)
	}
	if !strings.HasPrefix(draft.Content, stub.content) {
		t.Fatalf("expected body to lead with generated text, got %q", draft.Content)
	}
}

func TestGenerateFallsBackOnBackendFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("backend down")}
	gen := textgen.NewGenerator(stub, "", 3000, nil)

	draft := gen.Generate(context.Background(), "", "Cybersecurity for Enterprises")
	if draft.Source != textgen.SourceFallback {
		t.Fatalf("expected fallback source, got %q", draft.Source)
	}
	if strings.TrimSpace(draft.Content) == "" {
		t.Fatal("fallback draft must never be empty")
	}
	if !strings.Contains(draft.Content, "#CyberSecurity") {
		t.Fatalf("expected security hashtags in fallback, got %q", draft.Content)
	}
}

func TestGenerateAlwaysProducesContent(t *testing.T) {
	// Every domain in the catalogue must yield usable fallback content even
	// with no backend configured at all.
	gen := textgen.NewGenerator(nil, "", 3000, nil)
	for _, domain := range textgen.Domains() {
		draft := gen.Generate(context.Background(), "", domain)
		if strings.TrimSpace(draft.Content) == "" {
			t.Fatalf("empty draft for domain %q", domain)
		}
		if draft.Source != textgen.SourceFallback {
			t.Fatalf("expected fallback source for domain %q, got %q", domain, draft.Source)
		}
	}
}

func TestGenerateDefaultsDomainAndPrompt(t *testing.T) {
	stub := &stubCompleter{content: "body"}
	gen := textgen.NewGenerator(stub, "AI and Machine Learning", 3000, nil)

	draft := gen.Generate(context.Background(), "", "")
	if draft.Domain != "AI and Machine Learning" {
		t.Fatalf("expected default domain, got %q", draft.Domain)
	}
	if len(stub.prompts) != 1 || !strings.Contains(stub.prompts[0], "AI and Machine Learning") {
		t.Fatalf("expected stock prompt mentioning the domain, got %v", stub.prompts)
	}
}

func TestGenerateTruncatesLongBodies(t *testing.T) {
	stub := &stubCompleter{content: strings.Repeat("a", 5000)}
	gen := textgen.NewGenerator(stub, "", 3000, nil)

	draft := gen.Generate(context.Background(), "custom prompt", "Digital Transformation")
	if got := len([]rune(draft.Content)); got != 3000 {
		t.Fatalf("expected 3000 runes after truncation, got %d", got)
	}
	if !strings.HasSuffix(draft.Content, "...") {
		t.Fatal("expected truncated body to end with ellipsis")
	}
}

func TestHashtagsForMapping(t *testing.T) {
	cases := []struct {
		domain string
		want   string
	}{
		{"Cybersecurity for Enterprises", "#CyberSecurity"},
		{"Cloud Computing Solutions", "#CloudComputing"},
		{"AI and Machine Learning", "#MLOps"},
		{"Digital Transformation", "#DataDriven"},
		{"Programming and Development", "#ITInfrastructure"},
	}
	for _, tc := range cases {
		tags := strings.Join(textgen.HashtagsFor(tc.domain), " ")
		if !strings.Contains(tags, tc.want) {
			t.Fatalf("HashtagsFor(%q) = %s, want to contain %s", tc.domain, tags, tc.want)
		}
	}
}
