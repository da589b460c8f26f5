package server

import (
	"net/http"
	"strconv"

	wikidomain "github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) GetWiki(c *gin.Context) {
	doc, err := s.wikisvc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) EditWiki(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req wikidomain.SaveEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	slug := c.Param("slug")
	req.Slug = slug
	req.EditorID = user.ID

	ctx := c.Request.Context()

	// Serialize concurrent edits on the same document. Without redis
	// the lock degrades to a no-op and last-write-wins applies.
	if s.writes != nil && s.writes.Enabled() {
		lockToken, acquired, err := s.writes.TryLockWikiEdit(ctx, slug)
		if err != nil {
			s.log.Warn("wiki edit lock failed", zap.String("slug", slug), zap.Error(err))
		} else if !acquired {
			AbortWithError(c, ErrConflict)
			return
		} else {
			defer func() {
				if err := s.writes.ReleaseWikiEdit(ctx, slug, lockToken); err != nil {
					s.log.Warn("wiki edit unlock failed", zap.String("slug", slug), zap.Error(err))
				}
			}()
		}
	}

	doc, err := s.wikisvc.SaveEdit(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) ListWikiRevisions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	revisions, err := s.wikisvc.Revisions(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revisions": revisions})
}
