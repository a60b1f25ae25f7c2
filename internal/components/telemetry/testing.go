package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

// TestAPI records every report so tests can assert on what a component logged.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (t *TestAPI) record(r Report) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, r)
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record(Report{Kind: "broken", ID: id, Params: params})
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record(Report{Kind: "warning", ID: id, Params: params})
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record(Report{Kind: "debug", ID: msg, Params: params})
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record(Report{Kind: "count", ID: id, Count: count})
}

// Reports returns a copy of the recorded reports.
func (t *TestAPI) Reports() []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	out := make([]Report, len(t.reports))
	copy(out, t.reports)
	return out
}

// Find returns the recorded reports of the given kind whose id ends with suffix.
func (t *TestAPI) Find(kind, suffix string) []Report {
	var out []Report
	for _, r := range t.Reports() {
		if r.Kind == kind && strings.HasSuffix(r.ID, suffix) {
			out = append(out, r)
		}
	}
	return out
}
