package textgen

import (
	"math/rand"
	"strings"
)

// contentDomains is the catalogue of topics the autonomous generator draws
// from when no explicit domain is requested.
var contentDomains = []string{
	"Cloud Computing Solutions",
	"IT Services and Infrastructure",
	"Programming and Development",
	"SaaS Applications",
	"Microservices Architecture",
	"Client-Service Packages",
	"Enterprise Software Solutions",
	"DevOps and Automation",
	"API Design and Integration",
	"Database Management Systems",
	"Cybersecurity for Enterprises",
	"AI and Machine Learning",
	"Digital Transformation",
	"Software Development Lifecycle",
	"System Architecture Design",
}

// Domains returns a copy of the content domain catalogue.
func Domains() []string {
	out := make([]string, len(contentDomains))
	copy(out, contentDomains)
	return out
}

// RandomDomain picks a domain from the catalogue using the supplied source.
func RandomDomain(rng *rand.Rand) string {
	if rng == nil {
		return contentDomains[0]
	}
	return contentDomains[rng.Intn(len(contentDomains))]
}

var hashtagSets = map[string][]string{
	"itInnovation": {
		"#AI", "#DigitalTransformation", "#TechInnovation", "#ArtificialIntelligence",
		"#MachineLearning", "#Innovation", "#FutureOfWork", "#ITInfrastructure",
	},
	"cybersecurity": {
		"#CyberSecurity", "#ArtificialIntelligence", "#ThreatDetection", "#InfoSec",
		"#AIInnovation", "#SecurityAnalytics", "#CyberDefense", "#ZeroTrust",
	},
	"digitalTransformation": {
		"#DigitalTransformation", "#AI", "#MachineLearning", "#Innovation",
		"#BusinessIntelligence", "#FutureOfWork", "#DataDriven", "#Automation",
	},
	"cloudComputing": {
		"#CloudComputing", "#AWS", "#Azure", "#GCP", "#CloudNative",
		"#DevOps", "#Infrastructure", "#Scalability", "#CloudSecurity",
	},
	"machineLearning": {
		"#MachineLearning", "#DataScience", "#AI", "#MLOps", "#DeepLearning",
		"#PredictiveAnalytics", "#BigData", "#AlgorithmicThinking",
	},
}

// HashtagsFor maps a content domain onto its hashtag set. Domains without a
// dedicated set fall back to the general IT innovation tags.
func HashtagsFor(domain string) []string {
	lower := strings.ToLower(domain)
	switch {
	case strings.Contains(lower, "cyber") || strings.Contains(lower, "security"):
		return hashtagSets["cybersecurity"]
	case strings.Contains(lower, "cloud"):
		return hashtagSets["cloudComputing"]
	case strings.Contains(lower, "machine learning") || strings.Contains(lower, "ai "),
		strings.HasPrefix(lower, "ai"):
		return hashtagSets["machineLearning"]
	case strings.Contains(lower, "digital transformation"):
		return hashtagSets["digitalTransformation"]
	default:
		return hashtagSets["itInnovation"]
	}
}
