package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avagner/authcore"
)

// Server exposes the engine flows over HTTP. Request and response
// bodies are JSON; the session token travels in a cookie.
type Server struct {
	engine *authcore.Engine
	logger *log.Logger
}

// NewServer wraps an engine. A nil logger falls back to the standard
// logger; it receives only internal failure causes, never request
// secrets.
func NewServer(engine *authcore.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{engine: engine, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/signup", s.handleSignup)
	r.POST("/login", s.handleLogin)
	r.POST("/verify-2fa", s.handleVerifyTwoFactor)
	r.POST("/logout", s.handleLogout)
	r.POST("/verify-token", s.handleVerifyToken)
	r.POST("/delete-account", s.handleDeleteAccount)

	return r
}

// writeError maps engine errors onto the fixed status codes. Unexpected
// causes are logged server-side and surfaced as a generic 500 message.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authcore.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, authcore.ErrIncorrectCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect credentials"})
	case errors.Is(err, authcore.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, authcore.ErrMissingToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
	case errors.Is(err, authcore.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	default:
		s.logger.Printf("unexpected error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error"})
	}
}
