package router

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/campusloop/unibot/core"
)

const bengaliSystemPrompt = `তুমি একজন বিশ্ববিদ্যালয়ের সহায়ক AI। নিচের তথ্যের উপর ভিত্তি করে প্রশ্নের উত্তর দাও।

তথ্য:
%s

নির্দেশনা:
- সংক্ষিপ্ত এবং সঠিক উত্তর দিতে হবে
- উত্তর বাংলায় লিখতে হবে
- তারিখ, সময় ইত্যাদি গুরুত্বপূর্ণ তথ্য অবশ্যই উল্লেখ করতে হবে
- উৎস থেকে প্রাপ্ত তথ্য ব্যবহার করতে হবে`

const englishSystemPrompt = `You are a helpful university assistant. Answer the question based on the information provided below.

Information:
%s

Instructions:
- Provide a concise and accurate answer
- Answer in English
- Include important details like dates, times, deadlines
- Use the information from the sources provided`

// buildSystemPrompt embeds the retrieved context into the localized
// grounding prompt.
func buildSystemPrompt(language Language, context string) string {
	if language == LanguageBengali {
		return fmt.Sprintf(bengaliSystemPrompt, context)
	}
	return fmt.Sprintf(englishSystemPrompt, context)
}

// formatContext renders search results as numbered sources for the prompt.
func formatContext(results []*core.SearchResult) string {
	if len(results) == 0 {
		return "No relevant information found."
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("[Source %d]\nTitle: %s\nURL: %s\nContent: %s",
			i+1, result.Document.Title, result.Document.URL, result.Document.Contents))
	}
	return strings.Join(parts, "\n\n")
}

// fallbackContext is the stand-in context when no documents exist and the
// model answers from its own knowledge.
func fallbackContext(query string, topic core.Topic, universityName string) string {
	return fmt.Sprintf("User asked about: %s. This is related to %s information at %s.",
		query, topic.String(), universityName)
}

// resolveLanguage maps auto to a concrete language using Bengali script
// detection.
func resolveLanguage(language Language, query string) Language {
	switch language {
	case LanguageBengali, LanguageEnglish:
		return language
	}
	if containsBengali(query) {
		return LanguageBengali
	}
	return LanguageEnglish
}

// containsBengali reports whether any rune is in the Bengali script block.
func containsBengali(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Bengali, r) {
			return true
		}
	}
	return false
}

// Localized degradation messages. Every failure path still answers the
// user in their language.

func noResultsMessage(language Language) string {
	if language == LanguageBengali {
		return "দুঃখিত, আপনার প্রশ্নের উত্তর খুঁজে পাওয়া যায়নি। অনুগ্রহ করে আরও নির্দিষ্ট প্রশ্ন করুন।"
	}
	return "Sorry, I couldn't find any results for your question. Please try asking more specifically."
}

func noOfficialSourcesMessage(language Language) string {
	if language == LanguageBengali {
		return "দুঃখিত, কোনো অফিসিয়াল বিশ্ববিদ্যালয় তথ্য খুঁজে পাওয়া যায়নি।"
	}
	return "Sorry, no official university information was found."
}

func scrapingFailedMessage(language Language) string {
	if language == LanguageBengali {
		return "দুঃখিত, ওয়েবসাইট থেকে তথ্য সংগ্রহ করতে সমস্যা হয়েছে। পরে আবার চেষ্টা করুন।"
	}
	return "Sorry, there was an error retrieving information from the website. Please try again later."
}

func generalErrorMessage(language Language) string {
	if language == LanguageBengali {
		return "দুঃখিত, একটি ত্রুটি ঘটেছে। অনুগ্রহ করে পরে আবার চেষ্টা করুন।"
	}
	return "Sorry, an error occurred. Please try again later."
}
