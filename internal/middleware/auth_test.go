package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	sessions services.SessionServiceInterface
	user     *models.User
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	s.echo = echo.New()
	s.sessions = services.NewSessionService(config.AuthConfig{
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
	})
	s.user = &models.User{ID: uuid.New()}
}

func (s *AuthMiddlewareTestSuite) handler() echo.HandlerFunc {
	return RequireSession(s.sessions)(func(c echo.Context) error {
		userID, ok := c.Get("user_id").(uuid.UUID)
		s.True(ok)
		s.Equal(s.user.ID, userID)
		return c.NoContent(http.StatusOK)
	})
}

func (s *AuthMiddlewareTestSuite) TestAcceptsBearerToken() {
	token, _, err := s.sessions.Issue(s.user)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestAcceptsSessionCookie() {
	token, _, err := s.sessions.Issue(s.user)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestRejectsMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestRejectsMalformedAuthHeader() {
	token, _, err := s.sessions.Issue(s.user)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestRejectsExpiredToken() {
	expired := services.NewSessionService(config.AuthConfig{
		SessionSecret: "test-session-secret",
		SessionTTL:    -time.Minute,
	})
	token, _, err := expired.Issue(s.user)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestRejectsTamperedToken() {
	other := services.NewSessionService(config.AuthConfig{
		SessionSecret: "another-secret",
		SessionTTL:    time.Hour,
	})
	token, _, err := other.Issue(s.user)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
