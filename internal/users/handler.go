package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/resumes"
	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/respond"
)

// ResumeLister is the slice of the resume service the user surface needs for
// the convenience listing endpoint.
type ResumeLister interface {
	List(ctx context.Context, userID string) ([]resumes.Resume, error)
}

// Handler exposes the account HTTP surface.
type Handler struct {
	Svc     *Service
	Resumes ResumeLister
}

func NewHandler(svc *Service, resumes ResumeLister) *Handler {
	return &Handler{Svc: svc, Resumes: resumes}
}

// RegisterPublicRoutes attaches the unauthenticated routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// RegisterRoutes attaches routes that require a session; rg must carry auth
// middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/data", h.data)
	rg.GET("/resumes", h.resumes)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.ErrorWithDetail(c, http.StatusBadRequest, "Invalid registration data", err.Error())
		case errors.Is(err, ErrDuplicateEmail):
			respond.Error(c, http.StatusBadRequest, "User already exists")
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusBadRequest, "Invalid email or password")
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.OK(c, gin.H{
		"message": "Login successful.",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) data(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	user, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) resumes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if h.Resumes == nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	owned, err := h.Resumes.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.OK(c, gin.H{"resumes": owned})
}
