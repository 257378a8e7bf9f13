package httpserver

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	cfgpkg "github.com/taoyao-code/xbee-gateway/internal/config"
	appmetrics "github.com/taoyao-code/xbee-gateway/internal/metrics"
)

func get(s *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealthzReadyzMetrics(t *testing.T) {
	cfg := cfgpkg.HTTPConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}
	reg := appmetrics.NewRegistry()
	m := appmetrics.NewAppMetrics(reg)
	m.FramesDecoded.WithLabelValues("90").Inc()

	var linkUp atomic.Bool
	linkUp.Store(true)
	srv := New(cfg, "/prom", appmetrics.Handler(reg), linkUp.Load)

	assert.Equal(t, http.StatusOK, get(srv, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/readyz").Code)

	rr := get(srv, "/prom")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `xbee_frames_decoded_total{type="90"} 1`)

	// 链路断开后 readyz 不再就绪，healthz 不受影响
	linkUp.Store(false)
	rr = get(srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "not-ready", rr.Body.String())
	assert.Equal(t, http.StatusOK, get(srv, "/healthz").Code)
}

func TestDefaultMetricsPath(t *testing.T) {
	reg := appmetrics.NewRegistry()
	srv := New(cfgpkg.HTTPConfig{Addr: ":0"}, "", appmetrics.Handler(reg), nil)
	assert.Equal(t, http.StatusOK, get(srv, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/readyz").Code)
}

func TestRegister(t *testing.T) {
	srv := New(cfgpkg.HTTPConfig{Addr: ":0"}, "", nil, nil)
	srv.Register(func(r *gin.Engine) {
		r.GET("/extra", func(c *gin.Context) { c.String(http.StatusOK, "x") })
	})
	srv.Register(nil)
	assert.Equal(t, "x", get(srv, "/extra").Body.String())
	assert.Equal(t, http.StatusNotFound, get(srv, "/metrics").Code)
}
