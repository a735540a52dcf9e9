// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/swifttravel/internal/platform/metrics"
)

/*
TestAuthMetrics_Counters increments labelled counters independently.
*/
func TestAuthMetrics_Counters(t *testing.T) {
	authMetrics := metrics.New()

	authMetrics.LinkIssued(metrics.OutcomeSuccess)
	authMetrics.LinkIssued(metrics.OutcomeSuccess)
	authMetrics.LinkIssued(metrics.OutcomeRateLimited)
	authMetrics.Revoked()

	count, err := testutil.GatherAndCount(authMetrics.Registry(), "swifttravel_auth_magic_links_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

/*
TestAuthMetrics_NilSafe ignores calls on a nil receiver.
*/
func TestAuthMetrics_NilSafe(t *testing.T) {
	var authMetrics *metrics.AuthMetrics

	assert.NotPanics(t, func() {
		authMetrics.LinkIssued(metrics.OutcomeSuccess)
		authMetrics.Verification(metrics.OutcomeInvalid)
		authMetrics.SessionValidation(metrics.OutcomeRevoked)
		authMetrics.Revoked()
		authMetrics.RevocationFailOpen()
	})
}

/*
TestAuthMetrics_Handler exposes the custom collectors.
*/
func TestAuthMetrics_Handler(t *testing.T) {
	authMetrics := metrics.New()
	authMetrics.Verification(metrics.OutcomeSuccess)

	recorder := httptest.NewRecorder()
	authMetrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `swifttravel_auth_verifications_total{outcome="success"} 1`)
}
