package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-builder-backend/internal/resumes"
)

type fakeLLM struct {
	text    string
	jsonOut string
	err     error

	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	return f.text, f.err
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	f.lastSystem, f.lastUser = system, user
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.jsonOut), nil
}

func newTestService(fake *fakeLLM) *Service {
	return &Service{
		LLM:     fake,
		Resumes: &resumes.Service{Repo: resumes.NewMemoryRepo()},
	}
}

func TestEnhanceProfessionalSummary(t *testing.T) {
	fake := &fakeLLM{text: "Seasoned engineer."}
	svc := newTestService(fake)

	got, err := svc.EnhanceProfessionalSummary(context.Background(), "i write code")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if got != "Seasoned engineer." {
		t.Fatalf("got %q", got)
	}
	if fake.lastUser != "i write code" {
		t.Fatalf("user content = %q", fake.lastUser)
	}
}

func TestEnhanceRejectsEmptyContent(t *testing.T) {
	svc := newTestService(&fakeLLM{})

	if _, err := svc.EnhanceProfessionalSummary(context.Background(), "  "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.EnhanceJobDescription(context.Background(), ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v", err)
	}
}

func TestImportResumeCreatesPrefilledResume(t *testing.T) {
	fake := &fakeLLM{jsonOut: `{
		"professional_summary": "Backend engineer.",
		"skills": ["Go", "SQL"],
		"personal_info": {"full_name": "Ada Lovelace", "email": "ada@example.com"},
		"experience": [{"company": "Analytical Engines", "position": "Engineer"}]
	}`}
	svc := newTestService(fake)

	resume, err := svc.ImportResume(context.Background(), "user-1", "Imported", "Ada Lovelace, engineer...")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resume.Title != "Imported" {
		t.Fatalf("title = %q", resume.Title)
	}
	if resume.PersonalInfo.FullName != "Ada Lovelace" {
		t.Fatalf("full_name = %q", resume.PersonalInfo.FullName)
	}
	if len(resume.Skills) != 2 || len(resume.Experience) != 1 {
		t.Fatalf("content not mapped: %+v", resume.Content)
	}

	stored, err := svc.Resumes.Get(context.Background(), "user-1", resume.ID)
	if err != nil {
		t.Fatalf("stored resume missing: %v", err)
	}
	if stored.ProfessionalSummary != "Backend engineer." {
		t.Fatalf("summary = %q", stored.ProfessionalSummary)
	}
}

func TestImportResumeDefaultsTitle(t *testing.T) {
	fake := &fakeLLM{jsonOut: `{"professional_summary": "x"}`}
	svc := newTestService(fake)

	resume, err := svc.ImportResume(context.Background(), "user-1", "", "some text")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resume.Title != resumes.DefaultTitle {
		t.Fatalf("title = %q", resume.Title)
	}
}

func TestImportResumeBadJSON(t *testing.T) {
	fake := &fakeLLM{jsonOut: `not json`}
	svc := newTestService(fake)

	_, err := svc.ImportResume(context.Background(), "user-1", "t", "text")
	if !errors.Is(err, ErrBadExtract) {
		t.Fatalf("err = %v", err)
	}
}
