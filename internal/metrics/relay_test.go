package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRelayMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)
	m.ObservePass(250*time.Millisecond, 3, 0, nil)
	m.ObservePass(100*time.Millisecond, 1, 2, errors.New("partial"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	checks := []struct {
		name, label, value string
		want               float64
	}{
		{"relay_passes_total", "outcome", "success", 1},
		{"relay_passes_total", "outcome", "failure", 1},
		{"relay_notifications_total", "outcome", "published", 4},
		{"relay_notifications_total", "outcome", "failed", 2},
	}
	for _, c := range checks {
		got, err := fetchCounterValue(mfs, c.name, c.label, c.value)
		if err != nil {
			t.Fatalf("fetch %s{%s=%s}: %v", c.name, c.label, c.value, err)
		}
		if got != c.want {
			t.Fatalf("%s{%s=%s} = %f, want %f", c.name, c.label, c.value, got, c.want)
		}
	}

	mf := findMetricFamily(mfs, "relay_pass_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Fatalf("expected 2 histogram samples, got %v", mf)
	}
}

func TestNilRelayMetricsIsSafe(t *testing.T) {
	var m *RelayMetrics
	m.ObservePass(time.Second, 1, 1, nil)
	NewRelayMetrics(nil).ObservePass(time.Second, 1, 1, nil)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRelayMetrics(reg).ObservePass(time.Millisecond, 1, 0, nil)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "relay_passes_total") {
		t.Fatalf("status %d body %q", resp.StatusCode, body)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
