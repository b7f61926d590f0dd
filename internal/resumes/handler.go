package resumes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/respond"
	"resume-builder-backend/internal/shared/telemetry"
)

// Handler exposes the resume HTTP surface.
type Handler struct {
	Svc    *Service
	TmpDir string
}

func NewHandler(svc *Service, tmpDir string) *Handler {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Handler{Svc: svc, TmpDir: tmpDir}
}

// RegisterRoutes attaches owner-scoped routes; rg must carry auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create", h.create)
	rg.PUT("/update", h.update)
	rg.DELETE("/delete/:resumeId", h.delete)
	rg.GET("/get/:resumeId", h.get)
	rg.GET("/list", h.list)
}

// RegisterPublicRoutes attaches the anonymous read surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/public/:resumeId", h.getPublic)
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "Resume created successfully.",
		"resume":  resume,
	})
}

// update decodes the multipart request, spools any image to a temp file with
// guaranteed cleanup, and runs the pipeline.
func (h *Handler) update(c *gin.Context) {
	start := time.Now()
	userID := middleware.UserIDFromContext(c)

	resumeID := c.PostForm("resumeId")
	if resumeID == "" {
		metrics.IncResumeUpdateFailed()
		respond.Error(c, http.StatusBadRequest, "resumeId is required")
		return
	}
	c.Set("resumeId", resumeID)

	rawData := c.PostForm("resumeData")
	if rawData == "" {
		metrics.IncResumeUpdateFailed()
		respond.Error(c, http.StatusBadRequest, "Invalid resumeData JSON")
		return
	}

	in := UpdateInput{
		UserID:           userID,
		ResumeID:         resumeID,
		RawData:          rawData,
		RemoveBackground: RemoveBackgroundRequested(c.PostForm("removeBackground")),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		metrics.IncResumeUpdateFailed()
		respond.Error(c, http.StatusBadRequest, "Invalid image upload")
		return
	}
	if fileHeader != nil {
		if fileHeader.Size == 0 {
			metrics.IncResumeUpdateFailed()
			respond.Error(c, http.StatusBadRequest, "Empty image upload")
			return
		}
		tmpPath, err := h.spoolUpload(c, fileHeader)
		if err != nil {
			metrics.IncResumeUpdateFailed()
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer func() {
			if err := os.Remove(tmpPath); err != nil {
				telemetry.Warn("resume.update.tmp_cleanup", map[string]any{"path": tmpPath, "err": err.Error()})
			}
		}()
		in.Image = &ImageFile{
			Name: fileHeader.Filename,
			Path: tmpPath,
			Size: fileHeader.Size,
		}
	}

	resume, err := h.Svc.Update(c.Request.Context(), in)
	metrics.ObserveResumeUpdateDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncResumeUpdateFailed()
		switch {
		case errors.Is(err, ErrInvalidData):
			respond.Error(c, http.StatusBadRequest, "Invalid resumeData JSON")
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Resume not found or you don't have access.")
		case errors.Is(err, ErrUploadTimeout):
			respond.ErrorWithDetail(c, http.StatusInternalServerError, "Image upload timed out", err.Error())
		case errors.Is(err, ErrUploadFailed):
			respond.ErrorWithDetail(c, http.StatusInternalServerError, "Image upload failed", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.OK(c, gin.H{
		"message": "Resume updated successfully.",
		"resume":  resume,
	})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("resumeId")

	if err := h.Svc.Delete(c.Request.Context(), userID, resumeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Resume not found or you don't have access.")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"message": "Resume Deleted Successfully."})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("resumeId")

	resume, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Resume not found.")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) getPublic(c *gin.Context) {
	resumeID := c.Param("resumeId")

	resume, err := h.Svc.GetPublic(c.Request.Context(), resumeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Resume not found.")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resumes, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"resumes": resumes})
}

// spoolUpload saves the decoded image to a temp file and returns its path.
func (h *Handler) spoolUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	tmp, err := os.CreateTemp(h.TmpDir, "resume-upload-*"+ext)
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}
