package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ams/backend/internal/infrastructure/auth"
	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, roles ...string) *auth.Token {
	t.Helper()
	tok, err := svc.GenerateToken(auth.GenerateTokenInput{
		Subject:  "kovacs",
		Username: "Kovács Katalin",
		Roles:    roles,
	})
	require.NoError(t, err)
	return tok
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	tok := newTestToken(t, svc, auth.RoleArchivist)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, "kovacs", GetJWTSubject(c))
		assert.Equal(t, "Kovács Katalin", GetJWTUsername(c))
		assert.Equal(t, []string{auth.RoleArchivist}, claims.Roles)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", tok.AccessToken).Code)
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(router, http.MethodGet, "/test", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")

	rec = serve(router, http.MethodGet, "/test", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, "Basic abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_Expired(t *testing.T) {
	svc := newTestJWTService()
	tok, err := svc.GenerateToken(auth.GenerateTokenInput{Subject: "kovacs", TTL: time.Nanosecond})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(router, http.MethodGet, "/test", tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	cfg := DefaultJWTConfig(newTestJWTService())
	cfg.SkipPathPrefixes = []string{"/v1/catalog/search"}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/catalog/search", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/donors", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/catalog/search", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/v1/donors", "").Code)
}

func TestJWTAuthMiddleware_Blacklisted(t *testing.T) {
	svc := newTestJWTService()
	tok := newTestToken(t, svc, auth.RoleArchivist)
	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), tok.ID, time.Hour))

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(router, http.MethodGet, "/test", tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")

	other := newTestToken(t, svc, auth.RoleArchivist)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", other.AccessToken).Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	tok := newTestToken(t, svc, auth.RoleReadingRoom)

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTSubject(c))
	})

	rec := serve(router, http.MethodGet, "/test", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(router, http.MethodGet, "/test", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(router, http.MethodGet, "/test", tok.AccessToken)
	assert.Equal(t, "kovacs", rec.Body.String())
}
