package resumes

import (
	"errors"
	"testing"
)

func TestParseContentObject(t *testing.T) {
	raw := `{"title":"Backend CV","personal_info":{"full_name":"Ada"},"skills":["Go"],"public":true}`

	content, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if content.Title != "Backend CV" {
		t.Fatalf("title = %q", content.Title)
	}
	if content.PersonalInfo.FullName != "Ada" {
		t.Fatalf("full_name = %q", content.PersonalInfo.FullName)
	}
	if len(content.Skills) != 1 || content.Skills[0] != "Go" {
		t.Fatalf("skills = %v", content.Skills)
	}
	if !content.Public {
		t.Fatal("public flag lost")
	}
}

func TestParseContentDoubleEncoded(t *testing.T) {
	// Some clients JSON-stringify the payload before putting it in the form.
	raw := `"{\"title\":\"Stringified\",\"skills\":[\"SQL\"]}"`

	content, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if content.Title != "Stringified" {
		t.Fatalf("title = %q", content.Title)
	}
	if len(content.Skills) != 1 || content.Skills[0] != "SQL" {
		t.Fatalf("skills = %v", content.Skills)
	}
}

func TestParseContentIgnoresIdentityFields(t *testing.T) {
	raw := `{"title":"T","id":"evil-id","ownerId":"evil-owner","userId":"evil-user"}`

	content, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Content has no identity fields, so the payload cannot carry them through.
	if content.Title != "T" {
		t.Fatalf("title = %q", content.Title)
	}
}

func TestParseContentRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json", `"{\"broken\": "`, `"plain string"`} {
		if _, err := ParseContent(raw); !errors.Is(err, ErrInvalidData) {
			t.Fatalf("raw %q: err = %v, want ErrInvalidData", raw, err)
		}
	}
}

func TestRemoveBackgroundRequested(t *testing.T) {
	for raw, want := range map[string]bool{
		"yes":   true,
		"true":  true,
		" yes ": true,
		"1":     false,
		"on":    false,
		"YES":   false,
		"no":    false,
		"":      false,
	} {
		if got := RemoveBackgroundRequested(raw); got != want {
			t.Errorf("RemoveBackgroundRequested(%q) = %v, want %v", raw, got, want)
		}
	}
}
