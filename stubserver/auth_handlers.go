package stubserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/token"
)

// Auth failure strings are part of the wire contract; the login page keys
// its alerts off the exact text.
const (
	msgUserNotExists     = "User not exists!"
	msgIncorrectPassword = "Incorrect password!"
	msgEmailNotExists    = "Email not exists!"
)

type credentialsBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	u, err := s.users.Authenticate(body.Email, body.Password)
	switch {
	case errors.Is(err, errUserNotFound):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": msgUserNotExists})
		return
	case errors.Is(err, errWrongPassword):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": msgIncorrectPassword})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}

	access, refresh, err := s.tokens.Pair(u.Email, u.Role)
	if err != nil {
		s.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// googleLogin trusts the email as already verified by the identity provider.
// An unknown email is not an error; it routes the client to registration.
func (s *Server) googleLogin(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	u, ok := s.users.Find(body.Email)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": msgEmailNotExists})
		return
	}
	access, refresh, err := s.tokens.Pair(u.Email, u.Role)
	if err != nil {
		s.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (s *Server) createUser(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	if err := s.users.Create(body.Email, body.Password, token.RoleUser); err != nil {
		if errors.Is(err, errUserExists) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (s *Server) refreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	claims, err := s.tokens.Verify(body.RefreshToken, "refresh")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "invalid refresh token"})
		return
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	// Account state may have changed since the refresh token was minted.
	if _, ok := s.users.Find(email); !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "invalid refresh token"})
		return
	}

	access, err := s.tokens.Access(email, token.Role(role))
	if err != nil {
		s.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "accessToken": access})
}

func (s *Server) updateEmail(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		NewEmail string `json:"newEmail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.Email) {
		return
	}

	if err := s.users.UpdateEmail(body.Email, body.NewEmail); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) changePassword(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.Email) {
		return
	}

	if err := s.users.SetPassword(body.Email, body.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
