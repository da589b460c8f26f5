package server

import (
	"net/http"

	boarddomain "github.com/apiwikihq/apiwiki/internal/board/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListPosts(c *gin.Context) {
	var req boarddomain.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.boardsvc.ListPosts(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) GetPost(c *gin.Context) {
	post, err := s.boardsvc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (s *Server) CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req boarddomain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.AuthorID = user.ID

	post, err := s.boardsvc.CreatePost(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) DeletePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	err := s.boardsvc.DeletePost(c.Request.Context(), boarddomain.DeleteRequest{
		ID:           c.Param("id"),
		ActorID:      user.ID,
		ActorIsAdmin: user.IsAdmin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req boarddomain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PostID = c.Param("id")
	req.AuthorID = user.ID

	comment, err := s.boardsvc.CreateComment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (s *Server) DeleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	err := s.boardsvc.DeleteComment(c.Request.Context(), boarddomain.DeleteRequest{
		ID:           c.Param("id"),
		ActorID:      user.ID,
		ActorIsAdmin: user.IsAdmin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
