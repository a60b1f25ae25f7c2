package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveMeasurements(t *testing.T) {
	m := New()
	m.ObserveMeasurements([]healthplanet.Measurement{
		{Date: "202001020700", Tag: healthplanet.TagWeight, Keydata: "70.5"},
		{Date: "202001010700", Tag: healthplanet.TagWeight, Keydata: "71.0"},
		{Date: "202001010700", Tag: healthplanet.TagFatPercentage, Keydata: "20.1"},
		{Date: "202001030700", Tag: healthplanet.TagFatPercentage, Keydata: "--"},
	})

	require.Equal(t, 70.5, testutil.ToFloat64(m.weight))
	require.Equal(t, 0.0, testutil.ToFloat64(m.fatPercentage))
	require.Equal(t, 4.0, testutil.ToFloat64(m.measurements))
}

func TestObserveRunAndHandler(t *testing.T) {
	m := New()
	m.ObserveRun(OutcomeSuccess)
	m.ObserveRun(OutcomeSuccess)
	m.ObserveRun(OutcomeNotifyFailed)

	require.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeSuccess)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `healthplanet_runs_total{outcome="notify_failed"} 1`))
}
