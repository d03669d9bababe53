package storage

import (
	"testing"
	"time"

	"github.com/campusloop/unibot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("https://duet.ac.bd/notice@1700000000000000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "minimal document",
			doc: &core.Document{
				Id:         core.ID(1),
				URL:        "https://duet.ac.bd/notice",
				Contents:   "exam routine published",
				Topic:      core.TopicNotice,
				Retrieved:  now,
				InsertedAt: now,
				Vector:     []float32{0.1, 0.2, 0.3},
			},
		},
		{
			name: "bengali contents",
			doc: &core.Document{
				Id:         core.ID(2),
				URL:        "https://duet.ac.bd/library",
				Title:      "কেন্দ্রীয় লাইব্রেরি",
				Contents:   "লাইব্রেরি সকাল ৯টা থেকে খোলা থাকে",
				Topic:      core.TopicLibrary,
				Retrieved:  now.Add(-time.Hour),
				InsertedAt: now,
				Vector:     []float32{0.5},
			},
		},
		{
			name: "empty vector",
			doc: &core.Document{
				Id:         core.ID(3),
				URL:        "https://duet.ac.bd/admission",
				Contents:   "admission requirements",
				Topic:      core.TopicAdmission,
				Retrieved:  now,
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.doc.Id, decoded.Id)
			assert.Equal(t, tt.doc.URL, decoded.URL)
			assert.Equal(t, tt.doc.Title, decoded.Title)
			assert.Equal(t, tt.doc.Contents, decoded.Contents)
			assert.Equal(t, tt.doc.Topic, decoded.Topic)
			assert.True(t, tt.doc.Retrieved.Equal(decoded.Retrieved),
				"Retrieved %v != %v", tt.doc.Retrieved, decoded.Retrieved)
			assert.True(t, tt.doc.InsertedAt.Equal(decoded.InsertedAt),
				"InsertedAt %v != %v", tt.doc.InsertedAt, decoded.InsertedAt)
			assert.Equal(t, len(tt.doc.Vector), len(decoded.Vector))
			for i := range tt.doc.Vector {
				assert.Equal(t, tt.doc.Vector[i], decoded.Vector[i])
			}
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument([]byte{})
	assert.Error(t, err)
}
