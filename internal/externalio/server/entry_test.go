package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gelfgate/internal/metrics"
)

func fakeSearch(results []metrics.Metric) (search DataSearcher) {
	search = func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric {
		return results
	}
	return
}

func fakeDiscover(results []metrics.Metric) (discover Discoverer) {
	discover = func(name, description string, namespacePrefix []string, unit string, metricType metrics.MetricType) []metrics.Metric {
		return results
	}
	return
}

func sampleMetric() (metric metrics.Metric) {
	metric = metrics.Metric{
		Name:        "dispatched_messages",
		Description: "Complete messages reassembled and forwarded in the interval",
		Namespace:   []string{"Receiver", "Sweeper"},
		Type:        metrics.Counter,
		Timestamp:   time.Now(),
		Value:       metrics.MetricValue{Raw: uint64(7), Unit: "count", Interval: time.Second},
	}
	return
}

func TestDataEndpoint(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch([]metrics.Metric{sampleMetric()}), fakeDiscover(nil))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/data/Receiver/Sweeper?name=dispatched_messages", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var results []metrics.JMetric
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "dispatched_messages" {
		t.Errorf("unexpected metric name %q", results[0].Name)
	}
	if results[0].Namespace != "Receiver/Sweeper" {
		t.Errorf("unexpected namespace %q", results[0].Namespace)
	}
	if results[0].Value.Raw != "7" {
		t.Errorf("unexpected raw value %q", results[0].Value.Raw)
	}
}

func TestDataEndpointBadTime(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch(nil), fakeDiscover(nil))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/data/Receiver?starttime=notatime", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparseable start time, got %d", recorder.Code)
	}
}

func TestDataEndpointNoResults(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch(nil), fakeDiscover(nil))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/data/Nothing", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var errBody Jerror
	if err := json.Unmarshal(recorder.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errBody.Msg == "" {
		t.Errorf("expected error message for empty search")
	}
}

func TestDiscoveryEndpoint(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch(nil), fakeDiscover([]metrics.Metric{sampleMetric()}))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/discover?type=counter", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var results []metrics.JMetric
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestDiscoveryEndpointBadType(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch(nil), fakeDiscover(nil))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/discover?type=histogram", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown metric type, got %d", recorder.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, err := SetupListener(context.Background(), 22201, fakeSearch(nil), fakeDiscover(nil))
	if err != nil {
		t.Fatalf("failed to setup listener: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, "/data/Receiver", nil)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", recorder.Code)
	}
}
