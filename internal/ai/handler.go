package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/extract"
	"resume-builder-backend/internal/llm"
	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/respond"
)

// maxDocumentBytes bounds uploaded resume documents.
const maxDocumentBytes = 10 << 20

// Handler exposes the AI HTTP surface.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the AI routes; rg must carry auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/enhance-pro-sum", h.enhanceSummary)
	rg.POST("/enhance-job-desc", h.enhanceJobDescription)
	rg.POST("/upload-resume", h.uploadResume)
}

type enhanceRequest struct {
	UserContent string `json:"userContent"`
}

func (h *Handler) enhanceSummary(c *gin.Context) {
	h.enhance(c, h.Svc.EnhanceProfessionalSummary)
}

func (h *Handler) enhanceJobDescription(c *gin.Context) {
	h.enhance(c, h.Svc.EnhanceJobDescription)
}

func (h *Handler) enhance(c *gin.Context, fn func(ctx context.Context, content string) (string, error)) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserContent) == "" {
		respond.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	enhanced, err := fn(c.Request.Context(), req.UserContent)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusServiceUnavailable, "AI features are not configured")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"enhancedContent": enhanced})
}

type uploadResumeRequest struct {
	ResumeText string `json:"resumeText"`
	Title      string `json:"title"`
}

// uploadResume accepts either a JSON body with extracted text or a multipart
// document upload, runs extraction, and creates a pre-filled resume.
func (h *Handler) uploadResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	text, title, ok := h.resumeText(c)
	if !ok {
		return
	}

	resume, err := h.Svc.ImportResume(c.Request.Context(), userID, title, text)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyContent):
			respond.Error(c, http.StatusBadRequest, "Resume text is required")
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "AI features are not configured")
		case errors.Is(err, ErrBadExtract):
			respond.Error(c, http.StatusBadGateway, "Could not extract resume data")
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.OK(c, gin.H{
		"message": "Resume uploaded successfully",
		"resume":  gin.H{"id": resume.ID},
	})
}

func (h *Handler) resumeText(c *gin.Context) (text, title string, ok bool) {
	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req uploadResumeRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ResumeText) == "" {
			respond.Error(c, http.StatusBadRequest, "Resume text is required")
			return "", "", false
		}
		return req.ResumeText, req.Title, true
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Resume file is required")
		return "", "", false
	}
	if fileHeader.Size > maxDocumentBytes {
		respond.Error(c, http.StatusBadRequest, "Resume file is too large")
		return "", "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Resume file is required")
		return "", "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return "", "", false
	}
	if len(data) > maxDocumentBytes {
		respond.Error(c, http.StatusBadRequest, "Resume file is too large")
		return "", "", false
	}

	extracted, err := extract.Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respond.ErrorWithDetail(c, http.StatusBadRequest, "Could not read resume file", err.Error())
		return "", "", false
	}
	return extracted, c.PostForm("title"), true
}
