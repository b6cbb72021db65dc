package mocks

import (
	"net/http"
	"time"

	"fair/infras/metrics"
)

type metricsImpl struct{}

func (m *metricsImpl) RecordTransition(_, _ string)                      {}
func (m *metricsImpl) ObserveSweep(_ int, _ time.Duration)               {}
func (m *metricsImpl) RecordHTTPRequest(_, _, _ string, _ time.Duration) {}
func (m *metricsImpl) Handler() http.Handler                             { return http.NotFoundHandler() }

// NewMetrics returns a recorder that discards everything.
func NewMetrics() metrics.Metrics {
	return &metricsImpl{}
}
