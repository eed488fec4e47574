package imagegen

import (
	"fmt"
	"strings"
)

// renderSVG builds the deterministic fallback card. It needs no fonts or
// raster support, only text substitution, so it cannot fail.
func renderSVG(content CardContent, palette Palette, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad1" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="100%%" height="100%%" fill="url(#grad1)" />
  <g opacity="0.15">
    <circle cx="1000" cy="100" r="150" fill="white"/>
    <circle cx="200" cy="500" r="100" fill="white"/>
    <circle cx="800" cy="400" r="80" fill="white"/>
  </g>
  <text x="%d" y="%d" font-family="Arial, sans-serif" font-size="64" font-weight="bold" text-anchor="middle" fill="white">%s</text>
`,
		width, height,
		hexColor(palette.Primary), hexColor(palette.Secondary),
		width/2, height/2-50, escapeXML(content.Title),
	)
	if content.Subtitle != "" {
		fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Arial, sans-serif" font-size="32" text-anchor="middle" fill="rgba(255,255,255,0.9)">%s</text>
`, width/2, height/2+30, escapeXML(content.Subtitle))
	}
	footer := content.Hashtags
	if footer == "" {
		footer = "LinkedIn Professional Content"
	}
	fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Arial, sans-serif" font-size="20" text-anchor="end" fill="rgba(255,255,255,0.6)">%s</text>
  <rect x="40" y="40" width="%d" height="%d" fill="none" stroke="rgba(255,255,255,0.3)" stroke-width="3"/>
</svg>
`,
		width-50, height-40, escapeXML(footer),
		width-80, height-80,
	)
	return b.String()
}

func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}
