package server

import (
	"net/http"
	"strings"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User       userdomain.Response     `json:"user"`
	LoginAward *activitydomain.Receipt `json:"login_award,omitempty"`
}

func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.usersvc.Signup(c.Request.Context(), userdomain.SignupRequest{
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.Token, result.ExpiresAt)

	c.JSON(http.StatusCreated, loginResponse{User: result.User})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.usersvc.Login(c.Request.Context(), userdomain.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.Token, result.ExpiresAt)

	// First login of the (UTC) day earns a point; the receipt is nil
	// on repeat logins and on ledger failures.
	award := s.activitysvc.RecordLogin(c.Request.Context(), result.User.ID)

	c.JSON(http.StatusOK, loginResponse{User: result.User, LoginAward: award})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.usersvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.usersvc.ResolveSession(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) GetProfile(c *gin.Context) {
	user, err := s.usersvc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
