package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/pkg/jwt"
)

type stubBlacklist struct {
	revoked bool
	err     error
}

func (s stubBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func newAuthRouter(manager *jwt.Manager, blacklist Blacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(manager, blacklist), func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c).ID)
	})
	return r
}

func TestAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	access, err := manager.GenerateAccessToken("user-1", "user@example.com", auth.RoleCustomer)
	require.NoError(t, err)
	refresh, err := manager.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		blacklist  Blacklist
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			header:     "Bearer " + access,
			blacklist:  stubBlacklist{},
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name:       "missing header",
			blacklist:  stubBlacklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token " + access,
			blacklist:  stubBlacklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-token",
			blacklist:  stubBlacklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token rejected on access routes",
			header:     "Bearer " + refresh,
			blacklist:  stubBlacklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked token",
			header:     "Bearer " + access,
			blacklist:  stubBlacklist{revoked: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "blacklist outage fails open",
			header:     "Bearer " + access,
			blacklist:  stubBlacklist{err: errors.New("connection refused")},
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(manager, tt.blacklist)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
