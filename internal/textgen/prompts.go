package textgen

import "fmt"

const systemPrompt = "You are a thought leader in IT innovation and digital transformation. " +
	"Create compelling LinkedIn posts that generate engagement."

// defaultPrompt builds the per-domain generation prompt used when the caller
// supplies no prompt of its own.
func defaultPrompt(domain string) string {
	return fmt.Sprintf(`Create an engaging LinkedIn post about %s.

Requirements:
- 150-300 words
- Professional tone but engaging
- Include specific statistics or data points
- Use emojis strategically (2-4 total)
- Focus on business value and ROI
- End with a question to drive engagement
- Include trending technology concepts
- Use clear line breaks for readability

Make it sound authoritative but accessible. Avoid overly technical jargon.
Respond with the post body only, no preamble and no hashtags.`, domain)
}
