package core

import "testing"

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Topic
	}{
		{"bengali notice query", "আজকের নোটিশ কী?", TopicNotice},
		{"english notice query", "is there any new notice?", TopicNotice},
		{"exam maps to notice", "when is the exam routine published", TopicNotice},
		{"romanized library query", "Library koto somoy khola?", TopicLibrary},
		{"bengali library query", "লাইব্রেরি কখন বন্ধ হয়?", TopicLibrary},
		{"faculty query", "who is the head professor of CSE", TopicFaculty},
		{"bengali faculty query", "শিক্ষক তালিকা", TopicFaculty},
		{"event query", "next seminar schedule", TopicEvent},
		{"department query", "CSE syllabus download", TopicDepartment},
		{"admission query", "ভর্তি কবে শুরু হবে?", TopicAdmission},
		{"no keywords falls back to general", "hello how are you", TopicGeneral},
		{"empty query", "", TopicGeneral},
		{"case insensitive", "NOTICE BOARD", TopicNotice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTopic(tt.query); got != tt.want {
				t.Errorf("ClassifyTopic(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestClassifyTopic_PriorityOrder(t *testing.T) {
	// A query matching both notice and library keywords takes the
	// higher-priority topic.
	got := ClassifyTopic("library exam notice")
	if got != TopicNotice {
		t.Errorf("expected notice to win on multi-topic query, got %v", got)
	}
}

func TestTopic_String(t *testing.T) {
	tests := []struct {
		topic Topic
		want  string
	}{
		{TopicGeneral, "general"},
		{TopicNotice, "notice"},
		{TopicFaculty, "faculty"},
		{TopicLibrary, "library"},
		{TopicEvent, "event"},
		{TopicDepartment, "department"},
		{TopicAdmission, "admission"},
		{Topic(99), "general"},
	}

	for _, tt := range tests {
		if got := tt.topic.String(); got != tt.want {
			t.Errorf("Topic(%d).String() = %q, want %q", int(tt.topic), got, tt.want)
		}
	}
}

func TestTopic_SearchHint(t *testing.T) {
	if hint := TopicGeneral.SearchHint(); hint != "" {
		t.Errorf("expected empty hint for general topic, got %q", hint)
	}
	if hint := TopicNotice.SearchHint(); hint == "" {
		t.Error("expected non-empty hint for notice topic")
	}
}

func TestTopic_IsValid(t *testing.T) {
	for _, topic := range topics {
		if !topic.IsValid() {
			t.Errorf("expected %v to be valid", topic)
		}
	}
	if !TopicGeneral.IsValid() {
		t.Error("expected general topic to be valid")
	}
	if Topic(-1).IsValid() {
		t.Error("expected Topic(-1) to be invalid")
	}
}
