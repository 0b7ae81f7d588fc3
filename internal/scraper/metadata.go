package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var (
	newsIDPattern = regexp.MustCompile(`/(\d+)-.*\.html`)

	loginHashPattern     = regexp.MustCompile(`dle_login_hash\s*=\s*["']([^"']+)["']`)
	loginHashFallback    = regexp.MustCompile(`user_hash["']?\s*:\s*["']([^"']+)["']`)
	tweetTextPattern     = regexp.MustCompile(`text=([^&]+)`)
	trailingURLPattern   = regexp.MustCompile(`\s*https?://.*$`)
	releaseDatePattern   = regexp.MustCompile(`(\d{4})`)
	contentYearPattern   = regexp.MustCompile(`\b(20\d{2})\b`)
	seasonPatterns       = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bSeason\s+(\d+)\b`),
		regexp.MustCompile(`(?i)\bS(\d+)\b`),
		regexp.MustCompile(`\s+(\d+)$`),
	}
	seasonSuffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+Season\s+\d+$`),
		regexp.MustCompile(`(?i)\s+S\d+$`),
		regexp.MustCompile(`\s+\d+$`),
	}
)

// ExtractNewsID pulls the numeric article id out of an anime page URL.
func ExtractNewsID(pageURL string) (string, error) {
	match := newsIDPattern.FindStringSubmatch(pageURL)
	if match == nil {
		return "", errors.Errorf("could not extract news id from URL: %s", pageURL)
	}
	return match[1], nil
}

// extractLoginHash finds the session hash the AJAX endpoints expect.
// Missing hash is fine; some requests work without it.
func extractLoginHash(html string) string {
	if match := loginHashPattern.FindStringSubmatch(html); match != nil {
		return match[1]
	}
	if match := loginHashFallback.FindStringSubmatch(html); match != nil {
		return match[1]
	}
	return ""
}

// extractTitle prefers the English half of the Twitter share link text
// ("Українська назва / English Name https://..."), falling back to
// og:title and then the page h1.
func extractTitle(doc *goquery.Document) string {
	var title string
	doc.Find(`a[href*="twitter.com/intent/tweet"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		match := tweetTextPattern.FindStringSubmatch(href)
		if match == nil {
			return true
		}
		decoded, err := url.QueryUnescape(match[1])
		if err != nil {
			return true
		}
		parts := strings.Split(decoded, " / ")
		if len(parts) < 2 {
			return true
		}
		english := strings.TrimSpace(trailingURLPattern.ReplaceAllString(parts[1], ""))
		if english != "" {
			title = english
			return false
		}
		return true
	})
	if title != "" {
		return title
	}

	if content, exists := doc.Find(`meta[property="og:title"]`).Attr("content"); exists && content != "" {
		return content
	}
	if h1 := strings.TrimSpace(doc.Find("h1.title").First().Text()); h1 != "" {
		return h1
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return "Unknown"
}

// extractSeason reads a season number out of the title ("Name 3",
// "Name Season 4", "Name S2"), defaulting to 1.
func extractSeason(title string) int {
	for _, pattern := range seasonPatterns {
		if match := pattern.FindStringSubmatch(title); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

// baseTitle strips the season suffix so series folders share one name.
func baseTitle(title string) string {
	for _, pattern := range seasonSuffixPatterns {
		title = pattern.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(title)
}

// extractYear looks for the release year in the video:release_date meta
// tag, then for the first plausible year anywhere in the page text.
func extractYear(doc *goquery.Document) int {
	if content, exists := doc.Find(`meta[property="video:release_date"]`).Attr("content"); exists {
		if match := releaseDatePattern.FindStringSubmatch(content); match != nil {
			year, _ := strconv.Atoi(match[1])
			return year
		}
	}
	if match := contentYearPattern.FindStringSubmatch(doc.Text()); match != nil {
		year, _ := strconv.Atoi(match[1])
		return year
	}
	return 0
}
