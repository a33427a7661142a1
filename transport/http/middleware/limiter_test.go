package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"shutter/config"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/shared/cache"
	cacheMocks "shutter/shared/cache/mocks"
	"shutter/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limiterConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func limitedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/packages", nil)
	req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 10.0.0.2")
	req.Header.Set(constant.RequestHeaderUserAgent, "curl")

	return req
}

func TestRateLimit(t *testing.T) {
	const key = "limiter:10.0.0.1:curl"

	t.Run("first request starts the window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)
		redisCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
		redisCache.EXPECT().Save(gomock.Any(), key, 1, 60).Return(nil)

		m := NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(), redisCache)

		rec := httptest.NewRecorder()
		m.RateLimit()(http.HandlerFunc(okHandler)).ServeHTTP(rec, limitedRequest())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("exceeded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)
		redisCache.EXPECT().
			Get(gomock.Any(), key, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*int)) = 3

				return nil
			})

		m := NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(), redisCache)

		rec := httptest.NewRecorder()
		m.RateLimit()(http.HandlerFunc(okHandler)).ServeHTTP(rec, limitedRequest())

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache failure lets the request through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)
		redisCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(errors.New("connection refused"))

		m := NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(), redisCache)

		rec := httptest.NewRecorder()
		m.RateLimit()(http.HandlerFunc(okHandler)).ServeHTTP(rec, limitedRequest())

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		m := NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

		rec := httptest.NewRecorder()
		m.RateLimit()(http.HandlerFunc(okHandler)).ServeHTTP(rec, limitedRequest())

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
