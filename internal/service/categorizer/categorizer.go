package categorizer

import (
	"net/url"
	"strings"

	"github.com/dinerozz/focus-session-backend/internal/entity"
)

var productiveDomains = []string{
	"github.com",
	"stackoverflow.com",
	"developer.mozilla.org",
	"docs.microsoft.com",
	"learn.microsoft.com",
	"w3schools.com",
	"freecodecamp.org",
	"coursera.org",
	"udemy.com",
	"edx.org",
	"khanacademy.org",
	"arxiv.org",
	"scholar.google.com",
	"medium.com",
	"dev.to",
	"notion.so",
	"trello.com",
	"asana.com",
	"slack.com",
	"teams.microsoft.com",
	"zoom.us",
	"docs.google.com",
	"drive.google.com",
	"dropbox.com",
	"wikipedia.org",
	// path patterns never match a bare host, kept for parity with the extension lists
	"linkedin.com/learning",
	"pluralsight.com",
	"codecademy.com",
}

var distractingDomains = []string{
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"reddit.com",
	"tiktok.com",
	"twitch.tv",
	"netflix.com",
	"hulu.com",
	"disneyplus.com",
	"amazon.com/prime",
	"spotify.com",
	"pinterest.com",
	"tumblr.com",
	"snapchat.com",
	"9gag.com",
	"buzzfeed.com",
	"dailymail.co.uk",
	"tmz.com",
}

// Classifier maps URLs to categories by substring match against two pattern lists.
// The productive list is checked first.
type Classifier struct {
	productive  []string
	distracting []string
}

func NewClassifier(productive, distracting []string) *Classifier {
	return &Classifier{
		productive:  productive,
		distracting: distracting,
	}
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(productiveDomains, distractingDomains)
}

// ExtractDomain returns the lower-cased host without a leading "www.", or "" when
// the URL has no scheme or host.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func (c *Classifier) CategorizeDomain(domain string) entity.Category {
	if domain == "" {
		return entity.CategoryNeutral
	}

	for _, pattern := range c.productive {
		if strings.Contains(domain, pattern) {
			return entity.CategoryProductive
		}
	}

	for _, pattern := range c.distracting {
		if strings.Contains(domain, pattern) {
			return entity.CategoryDistracting
		}
	}

	return entity.CategoryNeutral
}

func (c *Classifier) CategorizeURL(rawURL string) entity.Category {
	return c.CategorizeDomain(ExtractDomain(rawURL))
}

func (c *Classifier) Categorize(visits []entity.Visit) []entity.CategorizedVisit {
	result := make([]entity.CategorizedVisit, 0, len(visits))
	for _, v := range visits {
		domain := ExtractDomain(v.URL)
		result = append(result, entity.CategorizedVisit{
			Visit:    v,
			Domain:   domain,
			Category: c.CategorizeDomain(domain),
		})
	}
	return result
}

// IsTrackable filters out browser-internal pages that never count as visits.
func IsTrackable(rawURL string) bool {
	return rawURL != "" &&
		!strings.HasPrefix(rawURL, "about:") &&
		!strings.HasPrefix(rawURL, "moz-extension:") &&
		!strings.HasPrefix(rawURL, "chrome-extension:") &&
		!strings.HasPrefix(rawURL, "chrome:")
}
