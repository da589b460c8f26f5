package server

import (
	"context"
	"net/http"
	"time"

	"github.com/apiwikihq/apiwiki/internal/activity"
	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/apiwikihq/apiwiki/internal/apicatalog"
	catalogdomain "github.com/apiwikihq/apiwiki/internal/apicatalog/domain"
	"github.com/apiwikihq/apiwiki/internal/authorization"
	"github.com/apiwikihq/apiwiki/internal/board"
	boarddomain "github.com/apiwikihq/apiwiki/internal/board/domain"
	"github.com/apiwikihq/apiwiki/internal/config"
	"github.com/apiwikihq/apiwiki/internal/observability"
	obsmiddleware "github.com/apiwikihq/apiwiki/internal/observability/logger"
	obsmetrics "github.com/apiwikihq/apiwiki/internal/observability/metrics"
	obstracing "github.com/apiwikihq/apiwiki/internal/observability/tracing"
	"github.com/apiwikihq/apiwiki/internal/ratelimit"
	"github.com/apiwikihq/apiwiki/internal/user"
	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/user/session"
	"github.com/apiwikihq/apiwiki/internal/wiki"
	wikidomain "github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	session.Module,
	authorization.Module,
	ratelimit.Module,
	user.Module,
	activity.Module,
	apicatalog.Module,
	wiki.Module,
	board.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	sessions    *session.Manager
	usersvc     userdomain.Service
	activitysvc activitydomain.Service
	catalogsvc  catalogdomain.Service
	wikisvc     wikidomain.Service
	boardsvc    boarddomain.Service
	authzSvc    authorization.Service
	writes      *ratelimit.WriteLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Sessions    *session.Manager
	UserSvc     userdomain.Service
	ActivitySvc activitydomain.Service
	CatalogSvc  catalogdomain.Service
	WikiSvc     wikidomain.Service
	BoardSvc    boarddomain.Service
	AuthzSvc    authorization.Service
	Writes      *ratelimit.WriteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		sessions:    p.Sessions,
		usersvc:     p.UserSvc,
		activitysvc: p.ActivitySvc,
		catalogsvc:  p.CatalogSvc,
		wikisvc:     p.WikiSvc,
		boardsvc:    p.BoardSvc,
		authzSvc:    p.AuthzSvc,
		writes:      p.Writes,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Catalog --------
	api.GET("/apis", s.ListAPIs)
	api.GET("/apis/:slug", s.GetAPI)
	api.POST("/apis", s.WebAuthRequired(), s.WriteRateLimit(), s.SubmitAPI)
	api.PUT("/apis/:slug/pricing", s.WebAuthRequired(), s.WriteRateLimit(), s.SavePricing)

	// -------- Wiki --------
	api.GET("/apis/:slug/wiki", s.GetWiki)
	api.PUT("/apis/:slug/wiki", s.WebAuthRequired(), s.WriteRateLimit(), s.EditWiki)
	api.GET("/apis/:slug/wiki/revisions", s.ListWikiRevisions)

	// -------- Boards --------
	api.GET("/posts", s.ListPosts)
	api.GET("/posts/:id", s.GetPost)
	api.POST("/posts", s.WebAuthRequired(), s.WriteRateLimit(), s.CreatePost)
	api.DELETE("/posts/:id", s.WebAuthRequired(), s.DeletePost)
	api.POST("/posts/:id/comments", s.WebAuthRequired(), s.WriteRateLimit(), s.CreateComment)
	api.DELETE("/comments/:id", s.WebAuthRequired(), s.DeleteComment)

	// -------- Users --------
	api.GET("/users/:id", s.GetProfile)
	api.GET("/users/:id/activities", s.ListActivities)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.WebAuthRequired())

	admin.GET("/apis/pending", s.authorizeAction(authorization.ObjectAPIEntry, authorization.ActionAPIEntryViewPending), s.ListPendingAPIs)
	admin.POST("/apis/:id/approve", s.authorizeAction(authorization.ObjectAPIEntry, authorization.ActionAPIEntryApprove), s.ApproveAPI)
	admin.POST("/apis/:id/reject", s.authorizeAction(authorization.ObjectAPIEntry, authorization.ActionAPIEntryReject), s.RejectAPI)

	admin.GET("/point-rules", s.authorizeAction(authorization.ObjectPointRule, authorization.ActionPointRuleView), s.ListPointRules)
	admin.PUT("/point-rules/:action_type", s.authorizeAction(authorization.ObjectPointRule, authorization.ActionPointRuleManage), s.PutPointRule)
	admin.DELETE("/point-rules/:action_type", s.authorizeAction(authorization.ObjectPointRule, authorization.ActionPointRuleManage), s.DeletePointRule)
}
