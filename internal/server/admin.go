package server

import (
	"net/http"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListPendingAPIs(c *gin.Context) {
	entries, err := s.catalogsvc.ListPending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) ApproveAPI(c *gin.Context) {
	entry, err := s.catalogsvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) RejectAPI(c *gin.Context) {
	entry, err := s.catalogsvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) ListPointRules(c *gin.Context) {
	rules, err := s.activitysvc.ListRules(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (s *Server) PutPointRule(c *gin.Context) {
	var req activitydomain.PutRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ActionType = c.Param("action_type")

	rule, err := s.activitysvc.PutRule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (s *Server) DeletePointRule(c *gin.Context) {
	if err := s.activitysvc.DeleteRule(c.Request.Context(), c.Param("action_type")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
