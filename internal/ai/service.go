package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder-backend/internal/llm"
	"resume-builder-backend/internal/resumes"
	"resume-builder-backend/internal/shared/storage/object"
	"resume-builder-backend/internal/shared/telemetry"
)

var (
	ErrEmptyContent = errors.New("content is required")
	ErrBadExtract   = errors.New("could not extract resume data")
)

// Service wraps the completion provider for the resume-writing features.
type Service struct {
	LLM     llm.Client
	Resumes *resumes.Service
	// Store keeps the original uploaded resume text; optional.
	Store object.ObjectStore
}

// EnhanceProfessionalSummary rewrites a summary into 1-2 ATS-friendly sentences.
func (s *Service) EnhanceProfessionalSummary(ctx context.Context, userContent string) (string, error) {
	if strings.TrimSpace(userContent) == "" {
		return "", ErrEmptyContent
	}
	return s.LLM.Complete(ctx, summarySystemPrompt, userContent)
}

// EnhanceJobDescription rewrites a job description into 1-2 ATS-friendly sentences.
func (s *Service) EnhanceJobDescription(ctx context.Context, userContent string) (string, error) {
	if strings.TrimSpace(userContent) == "" {
		return "", ErrEmptyContent
	}
	return s.LLM.Complete(ctx, jobDescSystemPrompt, userContent)
}

// ImportResume extracts structured content from resume text and creates a new
// resume for the owner. The original text is archived when a store is wired.
func (s *Service) ImportResume(ctx context.Context, userID, title, resumeText string) (resumes.Resume, error) {
	if strings.TrimSpace(resumeText) == "" {
		return resumes.Resume{}, ErrEmptyContent
	}

	raw, err := s.LLM.CompleteJSON(ctx, extractSystemPrompt, fmt.Sprintf(extractUserPromptFormat, resumeText))
	if err != nil {
		return resumes.Resume{}, err
	}

	var content resumes.Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return resumes.Resume{}, fmt.Errorf("%w: %v", ErrBadExtract, err)
	}
	content.Title = title

	resume, err := s.Resumes.Import(ctx, userID, content)
	if err != nil {
		return resumes.Resume{}, err
	}

	if s.Store != nil {
		key, size, _, err := s.Store.Save(ctx, userID, resume.ID+".txt", strings.NewReader(resumeText))
		if err != nil {
			// Archival is best effort; the resume is already created.
			telemetry.Warn("ai.import.archive_failed", map[string]any{"resume_id": resume.ID, "err": err.Error()})
		} else {
			telemetry.Info("ai.import.archived", map[string]any{"resume_id": resume.ID, "key": key, "bytes": size})
		}
	}
	return resume, nil
}
