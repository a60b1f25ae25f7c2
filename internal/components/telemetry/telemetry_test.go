package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := &TestAPI{}
	scoped := NewScopedAPI("healthplanet", recorder)

	scoped.ReportBroken("client.authenticate", "step")
	scoped.ReportWarning("client.innerscan")
	scoped.ReportDebug("start")
	scoped.ReportCount("runs", 3)

	reports := recorder.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, "healthplanet: client.authenticate", reports[0].ID)
	require.Equal(t, []any{"step"}, reports[0].Params)
	require.Equal(t, "warning", reports[1].Kind)
	require.Equal(t, "healthplanet: start", reports[2].ID)
	require.Equal(t, int64(3), reports[3].Count)

	require.Len(t, recorder.Find("broken", "client.authenticate"), 1)
	require.Empty(t, recorder.Find("broken", "client.innerscan"))
}

func TestNestedScopedAPI(t *testing.T) {
	recorder := &TestAPI{}
	scoped := NewScopedAPI("inner", NewScopedAPI("outer", recorder))
	scoped.ReportBroken("x")
	require.Equal(t, "outer: inner: x", recorder.Reports()[0].ID)
}

func TestSlogAPI(t *testing.T) {
	var out bytes.Buffer
	tel := SlogAPI{Logger: newTextLogger(&out, false)}

	tel.ReportBroken("client.authenticate", errors.New("login failed"), "login")
	tel.ReportDebug("hidden below info")
	tel.ReportCount("client.innerscan", 2)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `msg="broken component" id=client.authenticate err="login failed" params.1=login`)
	require.Contains(t, lines[1], "msg=count id=client.innerscan n=2")
}

func TestSlogAPIVerbose(t *testing.T) {
	var out bytes.Buffer
	tel := SlogAPI{Logger: newTextLogger(&out, true)}

	tel.ReportDebug("landing url", "https://www.healthplanet.jp/login.do")
	require.Contains(t, out.String(), `msg="landing url" params.0=https://www.healthplanet.jp/login.do`)
}

func TestPerfGaugesRecord(t *testing.T) {
	gauges, err := newPerfGauges()
	require.NoError(t, err)

	tel := &TestAPI{}
	gauges.record(context.Background(), tel)
	require.Empty(t, tel.Find("warning", "perf_stats.init"))
}
