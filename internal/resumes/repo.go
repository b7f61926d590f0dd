package resumes

import "context"

// Repo defines persistence for resumes. Every owner-facing operation is scoped
// by (userID, resumeID); GetPublic is the only anonymous surface and only
// matches documents marked public.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByOwner(ctx context.Context, userID, resumeID string) (Resume, error)
	GetPublic(ctx context.Context, resumeID string) (Resume, error)
	ListByOwner(ctx context.Context, userID string) ([]Resume, error)
	// Replace swaps the stored content wholesale and returns the new document,
	// or ErrNotFound when no owned document matched.
	Replace(ctx context.Context, userID, resumeID string, content Content) (Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error
}
