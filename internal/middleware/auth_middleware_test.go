package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traits-rail/traits-core/internal/authority"
)

func newTestRouter(authSvc *authority.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(AuthMiddleware(authSvc, logger))
	admin := r.Group("/admin")
	admin.Use(RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/base-ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	svc := authority.NewService("secret", time.Hour, "", "")
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/base-ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsBaseRole(t *testing.T) {
	svc := authority.NewService("secret", time.Hour, "", "")
	r := newTestRouter(svc)

	token, err := svc.IssueToken(authority.RoleBase)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdminRole(t *testing.T) {
	svc := authority.NewService("secret", time.Hour, "", "")
	r := newTestRouter(svc)

	token, err := svc.IssueToken(authority.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
