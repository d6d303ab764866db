package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	claims map[string]interface{}
}

func (f *fakeToken) Claims(v interface{}) error {
	if m, ok := v.(*map[string]interface{}); ok {
		*m = f.claims
		return nil
	}
	return errors.New("unsupported claims target")
}

type fakeVerifier struct {
	claims map[string]interface{}
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, raw string) (Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeToken{claims: f.claims}, nil
}

func protectedRouter(ver Verifier) *gin.Engine {
	r := gin.New()
	r.GET("/p", AuthMiddleware(ver), func(c *gin.Context) {
		c.JSON(200, gin.H{"actor": ActorID(c)})
	})
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := protectedRouter(&fakeVerifier{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := protectedRouter(&fakeVerifier{})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := protectedRouter(&fakeVerifier{err: errors.New("expired")})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsClaims(t *testing.T) {
	r := protectedRouter(&fakeVerifier{claims: map[string]interface{}{"uid": float64(12)}})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"actor":12`)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin",
		AuthMiddleware(&fakeVerifier{claims: map[string]interface{}{"uid": float64(1), "role": "agent"}}),
		RequireRole("admin"),
		func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	r := gin.New()
	r.GET("/admin",
		AuthMiddleware(&fakeVerifier{claims: map[string]interface{}{"uid": float64(1), "role": "admin"}}),
		RequireRole("admin"),
		func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
