package http

import (
	"net/http"
	"net/http/httptest"
	"shutter/config"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/permissions"
	"shutter/shared/constant"
	"shutter/transport/http/middleware"
	"shutter/transport/http/router"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer() *HTTP {
	cfg := &config.Config{}
	ot := otelMocks.NewOtel()

	return New(
		cfg,
		router.New(router.DomainHandlers{}),
		middleware.NewAppMiddleware(ot, cfg, nil),
		middleware.NewAuthRoleMiddleware(nil, ot, &permissions.PermissionData{}, cfg),
	)
}

func TestHealth(t *testing.T) {
	server := newTestServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ServerStateReady, server.State())

	server.setState(ServerStateInGracePeriod)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), constant.ResponseErrorUnhealthy)
}

func TestRejectWhileCleaningUp(t *testing.T) {
	server := newTestServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	server.setState(ServerStateInCleanupPeriod)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/packages", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), constant.ResponseErrorPrepareShutdown)
}

func TestStateChangesDuringRequests(t *testing.T) {
	server := newTestServer()
	server.setup()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		server.setState(ServerStateInGracePeriod)
		server.setState(ServerStateInCleanupPeriod)
	}()

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Contains(t, []int{http.StatusOK, http.StatusServiceUnavailable}, rec.Code)
		}()
	}

	wg.Wait()

	assert.Equal(t, ServerStateInCleanupPeriod, server.State())
}
