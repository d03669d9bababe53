package router

import "github.com/campusloop/unibot/core"

// Source tells where the answer's supporting context came from.
type Source string

const (
	// SourceCache means the semantic index answered without a web search.
	SourceCache Source = "cache"

	// SourceFresh means the answer is grounded in freshly scraped pages.
	SourceFresh Source = "fresh"

	// SourceLLMFallback means no documents were found and the model
	// answered from its own knowledge.
	SourceLLMFallback Source = "llm_fallback"

	// SourceNone means no usable context existed and a canned message was
	// returned.
	SourceNone Source = "none"
)

// Outcome tells whether the query ran to completion.
type Outcome string

const (
	// OutcomeOK means the pipeline finished inside its deadline.
	OutcomeOK Outcome = "ok"

	// OutcomeTimeout means the aggregate deadline expired and the result
	// holds whatever was assembled by then.
	OutcomeTimeout Outcome = "timeout"
)

// Language selects the answer language.
type Language string

const (
	// LanguageBengali answers in Bengali.
	LanguageBengali Language = "bn"

	// LanguageEnglish answers in English.
	LanguageEnglish Language = "en"

	// LanguageAuto picks Bengali when the query contains Bengali script,
	// English otherwise.
	LanguageAuto Language = "auto"
)

// Result is the complete response to one query.
type Result struct {
	// Success is false when the pipeline could only produce a canned
	// degradation message.
	Success bool

	// Answer is the response text, always present and localized.
	Answer string

	// Topic is the classification assigned to the query.
	Topic core.Topic

	// Source tells where the supporting context came from.
	Source Source

	// Outcome reports deadline expiry.
	Outcome Outcome

	// ElapsedMS is the total processing time in milliseconds.
	ElapsedMS int64

	// Matches lists the documents backing the answer, best first.
	Matches []core.Match
}
