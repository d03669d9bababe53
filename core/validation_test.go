package core

import (
	"errors"
	"testing"
	"time"
)

func validDocument() *Document {
	return &Document{
		URL:       "https://duet.ac.bd/notice",
		Title:     "Notice Board",
		Contents:  "exam routine published",
		Topic:     TopicNotice,
		Retrieved: time.Now().UTC().Add(-time.Minute),
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Document)
		wantErr error
	}{
		{
			name:    "valid document",
			modify:  func(d *Document) {},
			wantErr: nil,
		},
		{
			name:    "empty URL",
			modify:  func(d *Document) { d.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "empty contents",
			modify:  func(d *Document) { d.Contents = "" },
			wantErr: ErrEmptyContents,
		},
		{
			name:    "undefined topic",
			modify:  func(d *Document) { d.Topic = Topic(42) },
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "future retrieval time",
			modify:  func(d *Document) { d.Retrieved = time.Now().Add(time.Hour) },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "empty vector is allowed",
			modify:  func(d *Document) { d.Vector = nil },
			wantErr: nil,
		},
		{
			name:    "zero ID is allowed",
			modify:  func(d *Document) { d.Id = 0 },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.modify(doc)

			err := ValidateDocument(doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ValidateDocument() error should wrap ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestValidateDocument_Nil(t *testing.T) {
	if err := ValidateDocument(nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("ValidateDocument(nil) = %v, want ErrInvalidDocument", err)
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Second)) {
		t.Error("expected past timestamp to be valid")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("expected future timestamp to be invalid")
	}
}
