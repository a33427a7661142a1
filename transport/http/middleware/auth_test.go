package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"shutter/config"
	"shutter/infras/jwt"
	jwtMocks "shutter/infras/jwt/mocks"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/permissions"
	"shutter/shared"
	"shutter/shared/constant"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testPermissions() *permissions.PermissionData {
	return &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/auth/login", Method: http.MethodPost, Skip: true},
			{Path: "/v1/bookings/{id}/assign", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin}},
			{Path: "/v1/bookings", Method: http.MethodGet, Permissions: []string{constant.RoleAdmin, constant.RoleClient}, System: true},
			{Path: "/v1/bookings/{id}/payments", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin, constant.RoleClient}},
		},
	}
}

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithActor(r.Context(), "user-1", role)))
		})
	}
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{name: "admin assigns", role: constant.RoleAdmin, method: http.MethodPost, path: "/v1/bookings/b1/assign", want: http.StatusOK},
		{name: "photographer cannot assign", role: constant.RolePhotographer, method: http.MethodPost, path: "/v1/bookings/b1/assign", want: http.StatusForbidden},
		{name: "client lists bookings", role: constant.RoleClient, method: http.MethodGet, path: "/v1/bookings", want: http.StatusOK},
		{name: "public route", role: constant.Empty, method: http.MethodPost, path: "/v1/auth/login", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), testPermissions(), &config.Config{})

			router := chi.NewRouter()
			router.Use(withRole(tt.role))
			router.Use(m.RBAC)
			router.Route("/v1", func(r chi.Router) {
				r.Post("/auth/login", okHandler)
				r.Get("/bookings", okHandler)
				r.Post("/bookings/{id}/assign", okHandler)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		m := NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), testPermissions(), &config.Config{})

		rec := httptest.NewRecorder()
		m.Auth(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token puts the actor on the context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jwtService := jwtMocks.NewMockJWT(ctrl)
		jwtService.EXPECT().
			ValidateToken(gomock.Any(), "token", jwt.AccessToken).
			Return(&jwt.Claims{UserID: "user-1", Email: "a@b.c", Role: constant.RoleClient, TokenID: "t1"}, nil)

		m := NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), testPermissions(), &config.Config{})

		var userID, role string

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role = shared.ActorFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer token")

		rec := httptest.NewRecorder()
		m.Auth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, constant.RoleClient, role)
	})

	t.Run("expired token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jwtService := jwtMocks.NewMockJWT(ctrl)
		jwtService.EXPECT().
			ValidateToken(gomock.Any(), "token", jwt.AccessToken).
			Return(nil, jwt.ErrExpiredToken)

		m := NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), testPermissions(), &config.Config{})

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer token")

		rec := httptest.NewRecorder()
		m.Auth(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has expired")
	})
}

func TestAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "secret"

	m := NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), testPermissions(), cfg)

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "nope")

		rec := httptest.NewRecorder()
		m.APIKey(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid key acts as system admin and skips auth", func(t *testing.T) {
		var (
			userID, role string
			skip         bool
		)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role = shared.ActorFromContext(r.Context())
			skip, _ = r.Context().Value(SkipAuthKey("skip")).(bool)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "secret")

		rec := httptest.NewRecorder()
		m.APIKey(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, constant.ContextSystem, userID)
		assert.Equal(t, constant.RoleAdmin, role)
		assert.True(t, skip)
	})

	t.Run("valid key on an endpoint that records the caller", func(t *testing.T) {
		router := chi.NewRouter()
		router.Use(m.APIKey)
		router.Post("/v1/bookings/{id}/payments", okHandler)

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings/b1/payments", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "secret")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid key on an unknown endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "secret")

		rec := httptest.NewRecorder()
		m.APIKey(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no key passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil).WithContext(context.Background())

		rec := httptest.NewRecorder()
		m.APIKey(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
