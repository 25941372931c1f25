package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verify2FARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	TwoFACode      string `json:"2FACode"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed request body"})
		return
	}

	if err := s.engine.Signup(c.Request.Context(), req.Email, req.Password, req.Requires2FA); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed request body"})
		return
	}

	result, err := s.engine.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if result.TwoFactorRequired {
		c.JSON(http.StatusPartialContent, gin.H{
			"message":        "2FA required",
			"loginAttemptId": result.AttemptID,
		})
		return
	}

	setSessionCookie(c, result.Token, 0)
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleVerifyTwoFactor(c *gin.Context) {
	var req verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed request body"})
		return
	}

	token, err := s.engine.VerifyTwoFactor(c.Request.Context(), req.Email, req.LoginAttemptID, req.TwoFACode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	setSessionCookie(c, token, 0)
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.engine.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		s.writeError(c, err)
		return
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleVerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed request body"})
		return
	}

	if _, err := s.engine.ValidateToken(c.Request.Context(), req.Token); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	if err := s.engine.DeleteAccount(c.Request.Context(), sessionToken(c)); err != nil {
		s.writeError(c, err)
		return
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
