package prometheus_test

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	clientprom "entrance-client/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prom.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestMetricsRegisteredUnderDefaultNamespace(t *testing.T) {
	clientprom.LoginCounter.Inc()
	clientprom.ObserveAPIRequest("/auth/login", "POST", 200, time.Now())

	names := gatheredNames(t)
	require.True(t, names["entrance_client_login_total"])
	require.True(t, names["entrance_client_api_requests_total"])
	require.True(t, names["entrance_client_api_request_duration_seconds"])
}

func TestInitMetricsAppliesConfiguredPrefix(t *testing.T) {
	clientprom.InitMetrics("condo", "test", true)
	clientprom.LoginCounter.Inc()
	clientprom.ObserveAPIRequest("/auth/me", "GET", 200, time.Now())

	names := gatheredNames(t)
	require.True(t, names["condo_login_total"])
	require.True(t, names["condo_api_requests_total"])
	require.True(t, names["condo_info"])

	// The default-namespace collectors were unregistered by the rebuild
	require.False(t, names["entrance_client_login_total"])
}
