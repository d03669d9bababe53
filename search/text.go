package search

import "strings"

// Stop words to filter out when checking for verbatim matches. Queries
// arrive in English or Bengali, so both lists are needed.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,

	// Bengali particles and question words
	"কি": true, "কী": true, "কে": true, "কেন": true, "কখন": true,
	"কোথায়": true, "কীভাবে": true, "কিভাবে": true, "কত": true,
	"এবং": true, "ও": true, "বা": true, "আর": true, "তো": true,
	"এই": true, "এটা": true, "এটি": true, "সেই": true, "যে": true,
	"হয়": true, "হবে": true, "আছে": true, "ছিল": true, "করে": true,
	"থেকে": true, "জন্য": true, "দিয়ে": true, "নিয়ে": true, "মধ্যে": true,
	"না": true, "নি": true, "তা": true, "টা": true, "টি": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}।"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// containsAllQueryWords checks if all query words (after filtering) appear in the document
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	// Check if all query words exist in document
	for _, qWord := range queryWords {
		if !docWordSet[qWord] {
			return false
		}
	}

	return true
}
