package browser

// LinkedIn page selectors. Primary selectors reflect the current markup;
// secondaries cover the data-test-id variants LinkedIn ships to some
// accounts. Selector lookups try each in order before reporting drift.

const (
	urlHome  = "https://www.linkedin.com"
	urlLogin = "https://www.linkedin.com/login"
	urlFeed  = "https://www.linkedin.com/feed/"
)

const (
	selectorUsername    = "#username"
	selectorPassword    = "#password"
	selectorLoginSubmit = `button[type="submit"]`

	selectorFileInput = `input[type="file"]`
)

// URL fragments that indicate an interstitial auth challenge.
var challengeURLFragments = []string{"/checkpoint/", "/challenge", "/login"}

// landingSelectors indicate an authenticated session.
var landingSelectors = []string{
	`[data-test-id="nav-profile-image"]`,
	".global-nav__me-photo",
}

var composerTriggerSelectors = []string{
	"button.share-box-feed-entry__trigger",
	`button[data-test-id="share-box-open"]`,
}

var editorSelectors = []string{
	".ql-editor",
	`[data-test-id="share-form-text-editor"]`,
}

var mediaButtonSelectors = []string{
	`[data-test-id="share-media-button"]`,
	`button[aria-label*="Add a photo"]`,
}

var submitSelectors = []string{
	"button.share-actions__primary-action",
	`[data-test-id="share-post-button"]`,
}

var successBannerSelectors = []string{
	`[data-test-id="share-success-banner"]`,
	".artdeco-toast-item--visible",
}

const selectorPostLink = `a[href*="/feed/update/"]`
