package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // resumeID -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = now
	}
	resume.UpdatedAt = now
	resume.Content = cloneContent(resume.Content)
	r.data[resume.ID] = resume
	return nil
}

func (r *MemoryRepo) GetByOwner(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok || resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	resume.Content = cloneContent(resume.Content)
	return resume, nil
}

func (r *MemoryRepo) GetPublic(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok || !resume.Public {
		return Resume{}, ErrNotFound
	}
	resume.Content = cloneContent(resume.Content)
	return resume, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Resume{}
	for _, resume := range r.data {
		if resume.UserID != userID {
			continue
		}
		resume.Content = cloneContent(resume.Content)
		out = append(out, resume)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Replace(ctx context.Context, userID, resumeID string, content Content) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[resumeID]
	if !ok || resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	resume.Content = cloneContent(content)
	resume.UpdatedAt = time.Now().UTC()
	r.data[resumeID] = resume
	resume.Content = cloneContent(resume.Content)
	return resume, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[resumeID]
	if !ok || resume.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, resumeID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
