package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestQuizRequest(t *testing.T) {
	long := strings.Repeat("a", MinQuizTextLen)

	tests := []struct {
		name      string
		text      string
		count     int
		wantField string
	}{
		{"valid lower bound", long, MinQuestions, ""},
		{"valid upper bound", long, MaxQuestions, ""},
		{"text too short", "short", 15, "text"},
		{"one char short", long[1:], 15, "text"},
		{"count too small", long, 4, "numberOfQuestions"},
		{"count too large", long, 41, "numberOfQuestions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := QuizRequest(tt.text, tt.count)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestMinLength_CountsRunes(t *testing.T) {
	// Three runes, nine bytes.
	if err := Topic("日本語"); err != nil {
		t.Fatalf("expected 3-rune topic to pass, got %v", err)
	}
	if err := Topic("ab"); err == nil {
		t.Fatal("expected 2-char topic to fail")
	}
}

func TestNotes(t *testing.T) {
	if err := Notes(strings.Repeat("n", MinNotesLen-1)); err == nil {
		t.Fatal("expected error below floor")
	}
	if err := Notes(strings.Repeat("n", MinNotesLen)); err != nil {
		t.Fatalf("unexpected error at floor: %v", err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Field: "text", Message: "too short"}
	if err.Error() != "text: too short" {
		t.Errorf("Error() = %q", err.Error())
	}
	err = &Error{Message: "bad"}
	if err.Error() != "bad" {
		t.Errorf("Error() = %q", err.Error())
	}
}
