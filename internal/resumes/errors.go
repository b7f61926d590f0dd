package resumes

import "errors"

var (
	// ErrNotFound covers both a missing document and a non-owner caller; the
	// two are intentionally indistinguishable so existence does not leak.
	ErrNotFound = errors.New("resume not found or access denied")

	// ErrInvalidData reports an unusable resumeData payload.
	ErrInvalidData = errors.New("invalid resume data")

	// ErrUploadFailed reports an image service failure; persistence never runs after it.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrUploadTimeout reports that the image service missed its deadline.
	ErrUploadTimeout = errors.New("image upload timed out")
)
