package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)

	for _, endpoint := range data.Endpoints {
		if !endpoint.Skip {
			assert.NotEmpty(t, endpoint.Permissions, "%s %s has no roles", endpoint.Method, endpoint.Path)
		}
	}
}

func TestFindPermissions(t *testing.T) {
	data := Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		path   string
		method string
		skip   bool
		roles  []string
	}{
		{name: "public login", path: "/v1/auth/login", method: "POST", skip: true},
		{name: "public package list with trailing slash", path: "/v1/packages/", method: "GET", skip: true},
		{name: "admin assigns", path: "/v1/bookings/{id}/assign", method: "POST", roles: []string{"ADMIN"}},
		{name: "method is case insensitive", path: "/v1/payments/{id}/status", method: "patch", roles: []string{"ADMIN"}},
		{name: "nested mount pattern", path: "/v1/bookings/{id}/deliverables/", method: "POST", roles: []string{"PHOTOGRAPHER"}},
		{name: "unknown route", path: "/v1/unknown", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.skip, permission.Skip)
			assert.ElementsMatch(t, tt.roles, permission.Permissions)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	assert.Nil(t, parse([]byte("{")))
}

func TestSystemEndpoints(t *testing.T) {
	data := Get()
	require.NotNil(t, data)

	tests := []struct {
		path   string
		method string
		system bool
	}{
		{path: "/v1/bookings", method: "GET", system: true},
		{path: "/v1/bookings/{id}/assign", method: "POST", system: true},
		{path: "/v1/payments/{id}/status", method: "PATCH", system: true},
		{path: "/v1/bookings", method: "POST"},
		{path: "/v1/bookings/{id}/messages", method: "POST"},
		{path: "/v1/bookings/{id}/messages/read", method: "PATCH"},
		{path: "/v1/bookings/{id}/payments", method: "POST"},
		{path: "/v1/bookings/{id}/deliverables", method: "POST"},
		{path: "/v1/users/me", method: "GET"},
		{path: "/v1/notifications", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.system, data.FindPermissions(tt.path, tt.method).System)
		})
	}
}
