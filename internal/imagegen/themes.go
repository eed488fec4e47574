package imagegen

import (
	"image/color"
	"strings"
)

// Palette is a two-stop gradient for a card background.
type Palette struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
}

var themePalettes = map[string]Palette{
	"ai":            {Primary: color.NRGBA{0x66, 0x7e, 0xea, 0xff}, Secondary: color.NRGBA{0x76, 0x4b, 0xa2, 0xff}},
	"cybersecurity": {Primary: color.NRGBA{0xf0, 0x93, 0xfb, 0xff}, Secondary: color.NRGBA{0xf5, 0x57, 0x6c, 0xff}},
	"tech":          {Primary: color.NRGBA{0x4f, 0xac, 0xfe, 0xff}, Secondary: color.NRGBA{0x00, 0xf2, 0xfe, 0xff}},
	"business":      {Primary: color.NRGBA{0x43, 0xe9, 0x7b, 0xff}, Secondary: color.NRGBA{0x38, 0xf9, 0xd7, 0xff}},
	"cloud":         {Primary: color.NRGBA{0xfa, 0x70, 0x9a, 0xff}, Secondary: color.NRGBA{0xfe, 0xe1, 0x40, 0xff}},
}

// ThemePalette returns the gradient for a named theme, defaulting to tech.
func ThemePalette(theme string) Palette {
	if p, ok := themePalettes[strings.ToLower(strings.TrimSpace(theme))]; ok {
		return p
	}
	return themePalettes["tech"]
}

// ValidTheme reports whether the name is one of the known card themes.
func ValidTheme(theme string) bool {
	_, ok := themePalettes[strings.ToLower(strings.TrimSpace(theme))]
	return ok
}

// ThemeForTopic maps a content domain onto a card theme.
func ThemeForTopic(topic string) string {
	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "cyber") || strings.Contains(lower, "security"):
		return "cybersecurity"
	case strings.Contains(lower, "cloud"):
		return "cloud"
	case strings.Contains(lower, "ai") || strings.Contains(lower, "machine learning"):
		return "ai"
	case strings.Contains(lower, "business") || strings.Contains(lower, "enterprise") ||
		strings.Contains(lower, "client"):
		return "business"
	default:
		return "tech"
	}
}

// TopicPalette maps a topic directly onto gradient colours for the SVG
// fallback card.
func TopicPalette(topic string) Palette {
	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "ai") || strings.Contains(lower, "artificial intelligence"):
		return Palette{Primary: color.NRGBA{0x1e, 0x3a, 0x8a, 0xff}, Secondary: color.NRGBA{0x3b, 0x82, 0xf6, 0xff}}
	case strings.Contains(lower, "cyber") || strings.Contains(lower, "security"):
		return Palette{Primary: color.NRGBA{0x99, 0x1b, 0x1b, 0xff}, Secondary: color.NRGBA{0xdc, 0x26, 0x26, 0xff}}
	case strings.Contains(lower, "cloud"):
		return Palette{Primary: color.NRGBA{0x0f, 0x76, 0x6e, 0xff}, Secondary: color.NRGBA{0x14, 0xb8, 0xa6, 0xff}}
	case strings.Contains(lower, "saas") || strings.Contains(lower, "software"):
		return Palette{Primary: color.NRGBA{0x7c, 0x3a, 0xed, 0xff}, Secondary: color.NRGBA{0xa8, 0x55, 0xf7, 0xff}}
	default:
		return Palette{Primary: color.NRGBA{0x1f, 0x29, 0x37, 0xff}, Secondary: color.NRGBA{0x4b, 0x55, 0x63, 0xff}}
	}
}

// TitleForTopic derives a short card title from a content domain.
func TitleForTopic(topic string) string {
	switch {
	case strings.Contains(topic, "AI"):
		return "AI Innovation"
	case strings.Contains(topic, "Cyber"):
		return "Cybersecurity"
	case strings.Contains(topic, "Cloud"):
		return "Cloud Solutions"
	case strings.Contains(topic, "SaaS"):
		return "SaaS Solutions"
	case strings.Contains(topic, "Digital"):
		return "Digital Transform"
	case strings.Contains(topic, "Programming"):
		return "Programming"
	case strings.Contains(topic, "Microservices"):
		return "Microservices"
	default:
		return "Technology"
	}
}

var subtitleTable = []struct {
	key      string
	subtitle string
}{
	{"AI", "Artificial Intelligence Innovation"},
	{"Cyber", "Advanced Security Solutions"},
	{"Cloud", "Cloud Computing Excellence"},
	{"SaaS", "Software as a Service"},
	{"Digital", "Digital Transformation"},
	{"Programming", "Software Development"},
	{"Microservices", "Modern Architecture"},
}

// SubtitleForTopic derives a card subtitle from a content domain.
func SubtitleForTopic(topic string) string {
	for _, entry := range subtitleTable {
		if strings.Contains(topic, entry.key) {
			return entry.subtitle
		}
	}
	return "Professional Technology Content"
}
