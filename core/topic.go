package core

import "strings"

// Topic is a closed category label assigned to every query and inherited by
// the documents its retrieval produces. It biases search-query construction
// and tags stored documents for later filtering.
type Topic int

const (
	// TopicGeneral is the fallback for queries matching no keyword set.
	TopicGeneral Topic = iota
	// TopicNotice covers notices, announcements, exams, and deadlines.
	TopicNotice
	// TopicFaculty covers teachers, professors, and academic staff.
	TopicFaculty
	// TopicLibrary covers the library, books, and opening hours.
	TopicLibrary
	// TopicEvent covers seminars, workshops, and cultural programs.
	TopicEvent
	// TopicDepartment covers academic departments and programs.
	TopicDepartment
	// TopicAdmission covers admission and application procedures.
	TopicAdmission
)

// topics lists all topics in classification priority order.
// TopicGeneral is absent because it is the fallback, never matched.
var topics = []Topic{
	TopicNotice,
	TopicFaculty,
	TopicLibrary,
	TopicEvent,
	TopicDepartment,
	TopicAdmission,
}

// topicKeywords maps each topic to the substrings that select it.
// Keywords cover English, Bengali script, and romanized Bengali.
var topicKeywords = map[Topic][]string{
	TopicNotice: {
		"notice", "নোটিশ", "announcement", "ঘোষণা", "exam", "পরীক্ষা",
		"deadline", "শেষ তারিখ", "form", "ফর্ম", "circular", "routine", "রুটিন",
	},
	TopicFaculty: {
		"teacher", "শিক্ষক", "faculty", "professor", "প্রফেসর", "sir", "madam",
		"lecturer", "শিক্ষিকা",
	},
	TopicLibrary: {
		"library", "লাইব্রেরি", "book", "বই", "borrow", "somoy khola",
	},
	TopicEvent: {
		"event", "ইভেন্ট", "seminar", "সেমিনার", "workshop", "কর্মশালা",
		"program", "অনুষ্ঠান", "competition", "প্রতিযোগিতা",
	},
	TopicDepartment: {
		"department", "বিভাগ", "syllabus", "সিলেবাস", "course", "কোর্স",
		"curriculum",
	},
	TopicAdmission: {
		"admission", "ভর্তি", "apply", "আবেদন", "requirement", "eligibility",
	},
}

// topicHints maps each topic to keywords appended to the web search query.
var topicHints = map[Topic]string{
	TopicNotice:     "notice announcement",
	TopicFaculty:    "faculty teacher professor",
	TopicLibrary:    "library",
	TopicEvent:      "event seminar workshop",
	TopicDepartment: "department academic program",
	TopicAdmission:  "admission requirements",
}

var topicNames = map[Topic]string{
	TopicGeneral:    "general",
	TopicNotice:     "notice",
	TopicFaculty:    "faculty",
	TopicLibrary:    "library",
	TopicEvent:      "event",
	TopicDepartment: "department",
	TopicAdmission:  "admission",
}

// ClassifyTopic assigns a topic to a query by scanning the lower-cased text
// against each topic's keyword set in priority order. The first matching
// topic wins; a query matching nothing is TopicGeneral. This is a total
// function: every query maps to exactly one topic.
func ClassifyTopic(query string) Topic {
	lowered := strings.ToLower(query)
	for _, topic := range topics {
		for _, keyword := range topicKeywords[topic] {
			if strings.Contains(lowered, keyword) {
				return topic
			}
		}
	}
	return TopicGeneral
}

// String returns the topic's label.
func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return "general"
}

// SearchHint returns keywords appended to a web search query to bias
// results toward this topic. Empty for TopicGeneral.
func (t Topic) SearchHint() string {
	return topicHints[t]
}

// IsValid reports whether t is one of the defined topics.
func (t Topic) IsValid() bool {
	_, ok := topicNames[t]
	return ok
}
