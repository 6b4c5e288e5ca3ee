package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/requestdata"
	"github.com/tidefeed/tidefeed-backend/internal/services"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

type fakeAuthService struct {
	validToken string
	rd         *requestdata.RequestData
}

func (f *fakeAuthService) RegisterUser(ctx context.Context, email, password string) (*types.User, error) {
	return nil, nil
}

func (f *fakeAuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	return "", nil
}

func (f *fakeAuthService) ParseToken(tokenString string) (*requestdata.RequestData, error) {
	if tokenString == f.validToken {
		return f.rd, nil
	}
	return nil, services.ErrInvalidToken
}

func (f *fakeAuthService) TokenTTL() time.Duration {
	return time.Hour
}

func newProtectedRouter(t *testing.T) (*gin.Engine, **requestdata.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := &fakeAuthService{
		validToken: "good-token",
		rd:         &requestdata.RequestData{TokenString: "good-token", UserID: 42, Email: "a@b.com"},
	}
	am := NewAuthMiddleware(logger.NewNop(), auth)

	var captured *requestdata.RequestData
	r := gin.New()
	r.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		captured = requestdata.GetRequestData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestRequireAuthRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{name: "no_header", header: ""},
		{name: "not_bearer", header: "Basic abc123"},
		{name: "bearer_without_token", header: "Bearer "},
		{name: "invalid_token", header: "Bearer bad-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, captured := newProtectedRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if *captured != nil {
				t.Fatalf("handler ran for an unauthorized request")
			}
		})
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	r, captured := newProtectedRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	rd := *captured
	if rd == nil {
		t.Fatalf("request data missing from handler context")
	}
	if rd.UserID != 42 || rd.Email != "a@b.com" {
		t.Fatalf("request data = %+v, want user 42 a@b.com", rd)
	}
}
