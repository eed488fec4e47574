package textgen

import "strings"

// Canned posts used when the text backend is unreachable or keeps failing.
// Generation must always yield something publishable.
var fallbackPosts = map[string]string{
	"infrastructure": `🚀 AI is revolutionizing IT infrastructure management! From predictive maintenance to intelligent resource allocation, artificial intelligence is transforming enterprise systems.

Key benefits:
✅ 60% faster incident response
✅ Predictive hardware failure detection
✅ $2M+ savings on cloud costs
✅ Zero-touch deployments

The future of IT is intelligent! What AI infrastructure initiatives is your organization pursuing?`,

	"cybersecurity": `🛡️ AI-Powered Cybersecurity: The Game Changer!

Traditional security systems are reactive. AI makes them predictive. Latest innovations:

✨ Real-time threat detection (99.7% accuracy)
✨ Zero-day attack prevention
✨ 30-second automated incident response
✨ Advanced phishing detection using NLP

Organizations report 85% reduction in breach incidents and $3.8M average savings per year.

The future is proactive defense! How is your organization leveraging AI for cybersecurity?`,

	"transformation": `⚡ The AI-Driven Digital Transformation Wave is Here!

Companies adopting AI-first strategies are thriving with 4x faster growth rates.

Trending innovations:
🔮 Predictive Analytics (95% decision accuracy)
🔮 AI customer experiences (+70% satisfaction)
🔮 Intelligent automation (-45% costs)
🔮 Real-time supply chain optimization

89% of enterprises are implementing AI solutions with ROI in 6 months.

The question isn't whether to adopt AI, it's how fast you can adapt!`,

	"cloud": `☁️ Cloud Done Right: AI-Optimized Infrastructure!

Cloud spend keeps climbing, yet most workloads run over-provisioned. AI-driven optimization changes the math:

✅ Dynamic resource allocation across regions
✅ 40% average reduction in monthly cloud bills
✅ Automated security and compliance monitoring
✅ Seamless multi-cloud orchestration

Teams that pair FinOps with machine learning report savings inside the first quarter.

How is your organization keeping cloud costs under control?`,
}

// FallbackContent returns the canned post for a domain, hashtags included.
func FallbackContent(domain string) string {
	lower := strings.ToLower(domain)
	var body string
	switch {
	case strings.Contains(lower, "cyber") || strings.Contains(lower, "security"):
		body = fallbackPosts["cybersecurity"]
	case strings.Contains(lower, "cloud"):
		body = fallbackPosts["cloud"]
	case strings.Contains(lower, "transformation"):
		body = fallbackPosts["transformation"]
	default:
		body = fallbackPosts["infrastructure"]
	}
	return body + "\n\n" + strings.Join(HashtagsFor(domain), " ")
}
