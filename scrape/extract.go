package scrape

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	ogTitleTag    = regexp.MustCompile(`(?is)<meta[^>]+property="og:title"[^>]+content="([^"]*)"`)
	h1Tag         = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	chromeTags    = regexp.MustCompile(`(?is)<(nav|header|footer|aside|iframe)[^>]*>.*?</(nav|header|footer|aside|iframe)>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// extractTitle extracts the page title, preferring og:title over <title>
// over the first h1. Returns "Untitled" when nothing usable is found.
func extractTitle(page string) string {
	for _, re := range []*regexp.Regexp{ogTitleTag, titleTag, h1Tag} {
		matches := re.FindStringSubmatch(page)
		if len(matches) > 1 {
			title := allTags.ReplaceAllString(matches[1], "")
			title = strings.TrimSpace(html.UnescapeString(title))
			if title != "" {
				return title
			}
		}
	}
	return "Untitled"
}

// extractText removes markup and page chrome, leaving readable body text.
// Bengali and other non-ASCII text passes through untouched.
func extractText(page string) string {
	// Remove non-content sections entirely
	page = headTag.ReplaceAllString(page, "")
	page = scriptTag.ReplaceAllString(page, "")
	page = styleTag.ReplaceAllString(page, "")
	page = noscriptTag.ReplaceAllString(page, "")
	page = svgTag.ReplaceAllString(page, "")
	page = chromeTags.ReplaceAllString(page, "")
	page = htmlComments.ReplaceAllString(page, "")

	// Keep block boundaries as line breaks
	page = blockElements.ReplaceAllString(page, "\n")
	page = brTags.ReplaceAllString(page, "\n")

	// Strip all remaining HTML tags
	page = allTags.ReplaceAllString(page, "")

	// Decode HTML entities
	page = html.UnescapeString(page)

	// Collapse multiple spaces (but preserve newlines)
	page = multiSpaces.ReplaceAllString(page, " ")
	page = multiNewlines.ReplaceAllString(page, "\n\n")

	// Trim each line and drop empty ones
	lines := strings.Split(page, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// truncateRunes caps text at max runes without splitting a multi-byte
// character. Truncated text gets an ellipsis marker.
func truncateRunes(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
