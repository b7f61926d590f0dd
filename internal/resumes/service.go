package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder-backend/internal/imagekit"
	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/telemetry"
)

// ImageUploader is the contract the update pipeline needs from the image
// service: stream the file up with a transform spec, get the file record back.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, fileName, folder, transform string) (imagekit.UploadResult, error)
}

// Service owns resume lifecycle and the update pipeline.
type Service struct {
	Repo          Repo
	Images        ImageUploader
	ImageFolder   string
	UploadTimeout time.Duration
}

// ImageFile describes a decoded upload spooled to a temp file. The caller owns
// the temp file and removes it on every path.
type ImageFile struct {
	Name string
	Path string
	Size int64
}

// UpdateInput carries one decoded update request through the pipeline.
type UpdateInput struct {
	UserID           string
	ResumeID         string
	RawData          string
	RemoveBackground bool
	Image            *ImageFile
}

// Create makes an empty resume for the owner, defaulting the title.
func (s *Service) Create(ctx context.Context, userID, title string) (Resume, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	resume := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	resume.Title = title
	resume.UpdatedAt = resume.CreatedAt
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Import creates a resume pre-filled with extracted content.
func (s *Service) Import(ctx context.Context, userID string, content Content) (Resume, error) {
	if strings.TrimSpace(content.Title) == "" {
		content.Title = DefaultTitle
	}
	resume := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Content:   content,
	}
	resume.UpdatedAt = resume.CreatedAt
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns an owned resume.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if !validID(resumeID) {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByOwner(ctx, userID, resumeID)
}

// GetPublic returns a resume through the anonymous surface.
func (s *Service) GetPublic(ctx context.Context, resumeID string) (Resume, error) {
	if !validID(resumeID) {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetPublic(ctx, resumeID)
}

// List returns the owner's resumes, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByOwner(ctx, userID)
}

// Delete removes an owned resume.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if !validID(resumeID) {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, userID, resumeID)
}

// Update runs the pipeline: parse, verify ownership, optionally transform the
// image, then replace the stored content. Ownership is checked before the
// image call so a rejected request never leaves an orphaned remote upload.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Resume, error) {
	if strings.TrimSpace(in.ResumeID) == "" {
		return Resume{}, fmt.Errorf("%w: resumeId is required", ErrInvalidData)
	}

	content, err := ParseContent(in.RawData)
	if err != nil {
		return Resume{}, err
	}

	if !validID(in.ResumeID) {
		return Resume{}, ErrNotFound
	}
	if _, err := s.Repo.GetByOwner(ctx, in.UserID, in.ResumeID); err != nil {
		return Resume{}, err
	}

	if in.Image != nil {
		if in.Image.Size == 0 {
			return Resume{}, fmt.Errorf("%w: empty image upload", ErrInvalidData)
		}
		url, err := s.uploadImage(ctx, in.Image, in.RemoveBackground)
		if err != nil {
			return Resume{}, err
		}
		if url != "" {
			content.PersonalInfo.Image = url
		}
	}

	updated, err := s.Repo.Replace(ctx, in.UserID, in.ResumeID, content)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeUpdate()
	return updated, nil
}

func (s *Service) uploadImage(ctx context.Context, img *ImageFile, removeBackground bool) (string, error) {
	if s.Images == nil {
		metrics.IncImageUploadFailed()
		return "", fmt.Errorf("%w: image service not configured", ErrUploadFailed)
	}

	f, err := os.Open(img.Path)
	if err != nil {
		metrics.IncImageUploadFailed()
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	timeout := s.UploadTimeout
	if timeout <= 0 {
		timeout = imagekit.DefaultTimeout
	}
	uploadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.Images.Upload(uploadCtx, f, img.Name, s.ImageFolder, imagekit.TransformSpec(removeBackground))
	if err != nil {
		if errors.Is(err, imagekit.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			metrics.IncImageUploadTimeout()
			return "", fmt.Errorf("%w: %v", ErrUploadTimeout, err)
		}
		metrics.IncImageUploadFailed()
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	metrics.IncImageUpload()

	url := result.PublicURL()
	if url == "" {
		// Not a hard failure: the update proceeds without touching the image field.
		telemetry.Warn("resume.image.no_url", map[string]any{
			"file_id":   result.FileID,
			"file_name": img.Name,
		})
	}
	return url, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
