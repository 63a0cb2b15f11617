package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type middlewareTestMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
}

func (m *middlewareTestMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *middlewareTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *middlewareTestMetrics) IncCacheHits()                                    {}
func (m *middlewareTestMetrics) IncCacheMisses()                                  {}
func (m *middlewareTestMetrics) IncStakesCreated()                                {}
func (m *middlewareTestMetrics) IncBurns(_ int64)                                 {}
func (m *middlewareTestMetrics) IncRewards(_ int64)                               {}
func (m *middlewareTestMetrics) SetActiveStakes(_ int64)                          {}
func (m *middlewareTestMetrics) SetTotalSupply(_ int64)                           {}
func (m *middlewareTestMetrics) SetTotalBurned(_ int64)                           {}
func (m *middlewareTestMetrics) ObserveSweepDuration(_ time.Duration)             {}
func (m *middlewareTestMetrics) IncReplicationFailures(_ string)                  {}
func (m *middlewareTestMetrics) IncEvictions()                                    {}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodPost, "/content", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/content", metrics.requestEndpoint)
	assert.Equal(t, http.StatusCreated, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/score", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr}

	sw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sw.Status())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatusWriter_DefaultStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr}

	assert.Equal(t, http.StatusOK, sw.Status())
}

func TestStatusWriter_FirstWriteWins(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr}

	sw.WriteHeader(http.StatusCreated)
	sw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusCreated, sw.Status())
}
