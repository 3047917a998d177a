package post

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2025-01-15T09:30:00Z", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2025-01-15T09:30:00+02:00", time.Date(2025, 1, 15, 9, 30, 0, 0, time.FixedZone("", 2*60*60))},
		{"datetime no zone", "2025-01-15T09:30:00", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"date only", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"padded", "  2025-01-15  ", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "15/01/2025", "2025-13-40"} {
		if _, err := ParseDate(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", input, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	got, err := Slugify("Hello, World!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello-world" {
		t.Fatalf("expected hello-world, got %q", got)
	}

	if !IsValidSlug("hello-world") {
		t.Fatal("expected hello-world to be a valid slug")
	}
	if IsValidSlug("Hello World") {
		t.Fatal("expected Hello World to be rejected")
	}
}
