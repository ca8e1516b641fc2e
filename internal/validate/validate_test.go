package validate_test

import (
	"testing"

	"github.com/taskcheck/api/internal/validate"
)

type sample struct {
	Title string  `json:"title" validate:"required,max=255"`
	Notes *string `json:"notes" validate:"omitempty,max=5"`
	Email string  `json:"email" validate:"required,email"`
}

func TestStructReportsAllViolations(t *testing.T) {
	long := "toolong"
	violations := validate.Struct(sample{Notes: &long, Email: "not-an-email"})

	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %+v", len(violations), violations)
	}

	byProperty := map[string]string{}
	for _, vi := range violations {
		byProperty[vi.Property] = vi.Message
	}

	if byProperty["title"] != "Title is required" {
		t.Fatalf("title message = %q", byProperty["title"])
	}
	if byProperty["notes"] != "Notes cannot be longer than 5 characters" {
		t.Fatalf("notes message = %q", byProperty["notes"])
	}
	if byProperty["email"] != "Email is not a valid email address" {
		t.Fatalf("email message = %q", byProperty["email"])
	}
}

func TestStructPassesValidInput(t *testing.T) {
	if violations := validate.Struct(sample{Title: "ok", Email: "a@b.co"}); violations != nil {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}
