package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveSearch("price-low", 4)
	m.ObserveSearch("price-low", 0)
	m.CompareMutation("toggle")
	m.LeadSubmission("callback", "accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches.WithLabelValues("price-low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compareMutations.WithLabelValues("toggle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadSubmissions.WithLabelValues("callback", "accepted")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSearch("rating", 1)
	m.CompareMutation("clear")
	m.LeadSubmission("newsletter", "invalid")
	assert.Nil(t, m.Registry())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	assert.NotNil(t, m.InstrumentHandler(next))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CompareMutation("remove")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "comparenet_compare_mutations_total"))
}

func TestMetrics_InstrumentHandler(t *testing.T) {
	m := New()
	h := m.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("get", "418")))
}
