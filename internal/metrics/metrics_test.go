package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesDomainCounters(t *testing.T) {
	m := New()
	m.RegistrationOutcomes.WithLabelValues("register", OutcomeSuccess).Inc()
	m.FeedbackOutcomes.WithLabelValues(OutcomeRejected).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationOutcomes.WithLabelValues("register", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FeedbackOutcomes.WithLabelValues(OutcomeRejected)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "civic_events_registration_operations_total")
	assert.Contains(t, rec.Body.String(), "civic_events_feedback_submissions_total")
}
