package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeCollector はHTTPメトリクスの記録内容を保持する。
type fakeCollector struct {
	statuses  []int
	latencies []time.Duration
}

func (f *fakeCollector) RecordOperation(string, string) {}
func (f *fakeCollector) RecordHTTPStatus(code int)      { f.statuses = append(f.statuses, code) }
func (f *fakeCollector) RecordRequestLatency(d time.Duration) {
	f.latencies = append(f.latencies, d)
}

func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	collector := &fakeCollector{}
	handler := NewMetricsMiddleware(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/999", nil))

	if len(collector.statuses) != 1 || collector.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", collector.statuses)
	}
	if len(collector.latencies) != 1 || collector.latencies[0] < 0 {
		t.Errorf("latencies = %v, want one non-negative value", collector.latencies)
	}
}

func TestMetricsMiddleware_ImplicitOK(t *testing.T) {
	collector := &fakeCollector{}
	handler := NewMetricsMiddleware(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	if len(collector.statuses) != 1 || collector.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", collector.statuses)
	}
}
