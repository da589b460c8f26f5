package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
)

const contextUserKey = "current_user"

// WebAuthRequired resolves the session cookie and stores the user view
// on the request context. Requests without a live session are rejected.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
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

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// authorizeAction gates a route on the RBAC policy. It runs after
// WebAuthRequired so the actor is already on the context.
func (s *Server) authorizeAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), "user:"+user.ID, object, action); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// WriteRateLimit throttles authenticated write endpoints per user. A
// nil limiter (redis not configured) passes everything through.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.writes == nil || !s.writes.Enabled() {
			c.Next()
			return
		}

		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		allowed, err := s.writes.AllowWrite(c.Request.Context(), user.ID)
		if err != nil {
			// Limiter errors fail open.
			s.log.Warn("write rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		c.Next()
	}
}

func currentUser(c *gin.Context) (*userdomain.Response, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*userdomain.Response)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
