package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/ai"
	googleauth "resume-builder-backend/internal/auth"
	"resume-builder-backend/internal/resumes"
	"resume-builder-backend/internal/shared/config"
	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/respond"
	"resume-builder-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config     config.Config
	Users      *users.Handler
	Resumes    *resumes.Handler
	AI         *ai.Handler
	GoogleAuth *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"message": "Server is live!"})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api.Group("/auth"))
	}

	if deps.Users != nil {
		userGroup := api.Group("/user")
		deps.Users.RegisterPublicRoutes(userGroup)
		authedUser := userGroup.Group("")
		authedUser.Use(middleware.Auth())
		deps.Users.RegisterRoutes(authedUser)
	}

	if deps.Resumes != nil {
		resumeGroup := api.Group("/resume")
		deps.Resumes.RegisterPublicRoutes(resumeGroup)
		authedResume := resumeGroup.Group("")
		authedResume.Use(middleware.Auth())
		deps.Resumes.RegisterRoutes(authedResume)
	}

	if deps.AI != nil {
		aiGroup := api.Group("/ai")
		aiGroup.Use(
			middleware.Auth(),
			middleware.RateLimit(middleware.RateLimitConfig{
				Rules: map[string]middleware.RateLimitRule{
					"AI": {Rate: 0.5, Burst: 5},
				},
				DefaultGroup: "AI",
			}),
		)
		deps.AI.RegisterRoutes(aiGroup)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
