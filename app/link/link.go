package link

import (
	"iter"
	"regexp"
	"strings"
)

// Platform is the label of the service a URL belongs to.
type Platform string

const (
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformDevTo     Platform = "Dev.to"
	PlatformYouTube   Platform = "YouTube"
	PlatformMedium    Platform = "Medium"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

type domainRule struct {
	domain   string
	platform Platform
}

// Evaluated in order; the first contained domain wins.
var domainRules = []domainRule{
	{"linkedin.com", PlatformLinkedIn},
	{"dev.to", PlatformDevTo},
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
	{"medium.com", PlatformMedium},
	{"instagram.com", PlatformInstagram},
	{"tiktok.com", PlatformTikTok},
}

// Extract yields every http(s) URL found in text, in order of appearance.
// Matches are returned verbatim, trailing punctuation included.
func Extract(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for {
			loc := urlPattern.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

func ExtractAll(text string) []string {
	var urls []string
	for u := range Extract(text) {
		urls = append(urls, u)
	}
	return urls
}

// Classify returns the platform of the first domain rule contained in rawURL.
// This is substring containment, not hostname matching.
func Classify(rawURL string) (Platform, bool) {
	for _, rule := range domainRules {
		if strings.Contains(rawURL, rule.domain) {
			return rule.platform, true
		}
	}
	return "", false
}

// Platforms lists the known platforms in classification order.
func Platforms() []Platform {
	seen := make(map[Platform]bool, len(domainRules))
	platforms := make([]Platform, 0, len(domainRules))
	for _, rule := range domainRules {
		if seen[rule.platform] {
			continue
		}
		seen[rule.platform] = true
		platforms = append(platforms, rule.platform)
	}
	return platforms
}
