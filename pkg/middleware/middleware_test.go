package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/chanotai/library-lending/pkg/auth"
	md "github.com/chanotai/library-lending/pkg/middleware"
)

var signingKey = []byte("test-signing-key")

func newAuthServer(t *testing.T, fetch md.UserFetcher) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := auth.FromContext(c.Request().Context())
		require.True(t, ok)
		return c.String(http.StatusOK, id.Username+":"+id.Role)
	}, md.JwtAuthentication(signingKey, fetch))
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, md.JwtAuthentication(signingKey, fetch), md.AdminOnly)
	return e
}

func fetchAs(username, role string) md.UserFetcher {
	return func(context.Context, string) (string, string, error) {
		return username, role, nil
	}
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()

	token, err := auth.NewToken("u1", signingKey, time.Hour)
	require.NoError(t, err)
	expired, err := auth.NewToken("u1", signingKey, -time.Minute)
	require.NoError(t, err)

	var tests = []struct {
		name          string
		authorization string
		fetch         md.UserFetcher
		expectedCode  int
		expectedBody  string
	}{
		{
			name:          "ok",
			authorization: "Bearer " + token,
			fetch:         fetchAs("alice", "member"),
			expectedCode:  http.StatusOK,
			expectedBody:  "alice:member",
		},
		{
			name:          "err. no header",
			authorization: "",
			fetch:         fetchAs("alice", "member"),
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. not bearer",
			authorization: "Basic dXNlcjpwYXNz",
			fetch:         fetchAs("alice", "member"),
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. garbage token",
			authorization: "Bearer not.a.token",
			fetch:         fetchAs("alice", "member"),
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. expired token",
			authorization: "Bearer " + expired,
			fetch:         fetchAs("alice", "member"),
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. subject deleted",
			authorization: "Bearer " + token,
			fetch: func(context.Context, string) (string, string, error) {
				return "", "", errors.New("user not found")
			},
			expectedCode: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newAuthServer(t, tt.fetch)

			r := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.authorization != "" {
				r.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	token, err := auth.NewToken("u1", signingKey, time.Hour)
	require.NoError(t, err)

	var tests = []struct {
		name         string
		role         string
		expectedCode int
	}{
		{name: "ok. admin", role: "admin", expectedCode: http.StatusOK},
		{name: "err. member", role: "member", expectedCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newAuthServer(t, fetchAs("alice", tt.role))

			r := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			r.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
