package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/apiwikihq/apiwiki/internal/config"
	"github.com/apiwikihq/apiwiki/internal/grade"
	userdomain "github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/user/session"
	wikidomain "github.com/apiwikihq/apiwiki/internal/wiki/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeUserService struct {
	loginCalls   int
	resolveCalls int
	user         userdomain.Response
	loginErr     error
	resolveErr   error
}

func (f *fakeUserService) Signup(ctx context.Context, req userdomain.SignupRequest) (*userdomain.AuthResponse, error) {
	_ = ctx
	_ = req
	return &userdomain.AuthResponse{User: f.user, Token: "t", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeUserService) Login(ctx context.Context, req userdomain.LoginRequest) (*userdomain.AuthResponse, error) {
	f.loginCalls++
	_ = ctx
	_ = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &userdomain.AuthResponse{User: f.user, Token: "session-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeUserService) Logout(ctx context.Context, token string) error {
	_ = ctx
	_ = token
	return nil
}

func (f *fakeUserService) ResolveSession(ctx context.Context, token string) (*userdomain.Response, error) {
	f.resolveCalls++
	_ = ctx
	_ = token
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	user := f.user
	return &user, nil
}

func (f *fakeUserService) Profile(ctx context.Context, id string) (*userdomain.Response, error) {
	_ = ctx
	_ = id
	user := f.user
	return &user, nil
}

type fakeActivityService struct {
	loginAwards int
}

func (f *fakeActivityService) ResolvePoints(ctx context.Context, actionType activitydomain.ActionType) int {
	_ = ctx
	_ = actionType
	return 0
}

func (f *fakeActivityService) Record(ctx context.Context, userID string, actionType activitydomain.ActionType, explicitPoints *int) *activitydomain.Receipt {
	_ = ctx
	_ = userID
	_ = actionType
	_ = explicitPoints
	return nil
}

func (f *fakeActivityService) RecordLogin(ctx context.Context, userID string) *activitydomain.Receipt {
	f.loginAwards++
	_ = ctx
	_ = userID
	return &activitydomain.Receipt{ActivityID: "1", PointsAwarded: 1}
}

func (f *fakeActivityService) History(ctx context.Context, userID string, limit int) ([]activitydomain.Response, error) {
	_ = ctx
	_ = userID
	_ = limit
	return nil, nil
}

func (f *fakeActivityService) ListRules(ctx context.Context) ([]activitydomain.RuleResponse, error) {
	_ = ctx
	return nil, nil
}

func (f *fakeActivityService) PutRule(ctx context.Context, req activitydomain.PutRuleRequest) (*activitydomain.RuleResponse, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakeActivityService) DeleteRule(ctx context.Context, actionType string) error {
	_ = ctx
	_ = actionType
	return nil
}

type fakeWikiService struct {
	saveErr error
}

func (f *fakeWikiService) Get(ctx context.Context, apiSlug string) (*wikidomain.Response, error) {
	_ = ctx
	return &wikidomain.Response{APISlug: apiSlug}, nil
}

func (f *fakeWikiService) SaveEdit(ctx context.Context, req wikidomain.SaveEditRequest) (*wikidomain.Response, error) {
	_ = ctx
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &wikidomain.Response{APISlug: req.Slug, Body: req.Body, Exists: true}, nil
}

func (f *fakeWikiService) Revisions(ctx context.Context, apiSlug string, limit int) ([]wikidomain.RevisionResponse, error) {
	_ = ctx
	_ = apiSlug
	_ = limit
	return nil, nil
}

func testUser() userdomain.Response {
	return userdomain.Response{
		ID:          "100",
		Email:       "alice@example.com",
		DisplayName: "alice",
		Tier:        userdomain.TierView{Value: grade.TierBronze},
	}
}

func TestLoginSetsCookieAndAwardsPoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	usersvc := &fakeUserService{user: testUser()}
	activitysvc := &fakeActivityService{}
	srv := &Server{
		cfg:         config.Config{},
		log:         zap.NewNop(),
		sessions:    session.NewManager(config.Config{}),
		usersvc:     usersvc,
		activitysvc: activitysvc,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if usersvc.loginCalls != 1 {
		t.Fatalf("expected 1 login call, got %d", usersvc.loginCalls)
	}
	if activitysvc.loginAwards != 1 {
		t.Fatalf("expected 1 login award, got %d", activitysvc.loginAwards)
	}
	cookie := resp.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, session.DefaultCookieName+"=session-token") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
	if !strings.Contains(resp.Body.String(), `"login_award"`) {
		t.Fatalf("expected login award in body, got %s", resp.Body.String())
	}
}

func TestLoginInvalidCredentialsReturns401(t *testing.T) {
	gin.SetMode(gin.TestMode)

	usersvc := &fakeUserService{user: testUser(), loginErr: userdomain.ErrInvalidCredentials}
	srv := &Server{
		log:         zap.NewNop(),
		sessions:    session.NewManager(config.Config{}),
		usersvc:     usersvc,
		activitysvc: &fakeActivityService{},
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestWebAuthRequiredRejectsMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		log:      zap.NewNop(),
		sessions: session.NewManager(config.Config{}),
		usersvc:  &fakeUserService{user: testUser()},
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/private", srv.WebAuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestEditWikiDeniedReturns403WithReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	usersvc := &fakeUserService{user: testUser()}
	srv := &Server{
		log:      zap.NewNop(),
		sessions: session.NewManager(config.Config{}),
		usersvc:  usersvc,
		wikisvc: &fakeWikiService{saveErr: &wikidomain.EditDeniedError{
			Tier:   grade.TierBronze,
			Reason: "Bronze tier can edit at most 50 characters",
		}},
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PUT("/api/apis/:slug/wiki", srv.WebAuthRequired(), srv.EditWiki)

	req := httptest.NewRequest(http.MethodPut, "/api/apis/stripe/wiki", bytes.NewBufferString(`{"body":"new body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Bronze tier can edit at most 50 characters") {
		t.Fatalf("expected denial reason in body, got %s", resp.Body.String())
	}
}

func TestEditWikiSavesForAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		log:      zap.NewNop(),
		sessions: session.NewManager(config.Config{}),
		usersvc:  &fakeUserService{user: testUser()},
		wikisvc:  &fakeWikiService{},
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PUT("/api/apis/:slug/wiki", srv.WebAuthRequired(), srv.EditWiki)

	req := httptest.NewRequest(http.MethodPut, "/api/apis/stripe/wiki", bytes.NewBufferString(`{"body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"api_slug":"stripe"`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}
