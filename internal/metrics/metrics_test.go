package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("stock", 20*time.Millisecond, nil)
	m.ObserveFetch("stock", time.Second, errors.New("down"))
	m.ObserveFetch("stock", time.Second, errors.New("down"))
	m.CacheLookup("billing", true)
	m.CacheLookup("billing", false)
	m.LoginAttempt(false)
	m.Render("stock", "empty")
	m.Extraction("invoices", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("stock", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("stock", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("billing", CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("billing", CacheMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("stock", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("invoices", OutcomeSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("stock", time.Second, nil)
		m.CacheLookup("stock", true)
		m.LoginAttempt(true)
		m.Render("stock", "ok")
		m.Extraction("stock", nil)
	})
}
