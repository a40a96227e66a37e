package search

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Adetisola/Rater/internal/ranking"
)

func gatherMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestMetricsRecordBuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ix := Build(testSnapshot(), ranking.DefaultTuning().Search)
	m.RecordBuild(ix)

	builds := gatherMetric(t, reg, MetricIndexBuilds)
	if builds == nil {
		t.Fatal("index builds metric not registered")
	}
	if got := builds.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("builds = %v, want 1", got)
	}

	docs := gatherMetric(t, reg, MetricIndexDocuments)
	if docs == nil {
		t.Fatal("index documents metric not registered")
	}
	byEntity := make(map[string]float64)
	for _, metric := range docs.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "entity" {
				byEntity[label.GetValue()] = metric.GetGauge().GetValue()
			}
		}
	}
	// The blocked designer is excluded from the designer index
	if byEntity["designers"] != 2 {
		t.Errorf("designer docs = %v, want 2", byEntity["designers"])
	}
	if byEntity["posts"] != 3 {
		t.Errorf("post docs = %v, want 3", byEntity["posts"])
	}
	if byEntity["categories"] != 7 {
		t.Errorf("category docs = %v, want 7", byEntity["categories"])
	}
}

func TestMetricsRecordQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	m.RecordQuery("all", 2*time.Millisecond)
	m.RecordQuery("all", time.Millisecond)
	m.RecordQuery("posts", time.Millisecond)

	queries := gatherMetric(t, reg, MetricQueries)
	if queries == nil {
		t.Fatal("queries metric not registered")
	}
	byEntrypoint := make(map[string]float64)
	for _, metric := range queries.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "entrypoint" {
				byEntrypoint[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	if byEntrypoint["all"] != 2 {
		t.Errorf("all queries = %v, want 2", byEntrypoint["all"])
	}
	if byEntrypoint["posts"] != 1 {
		t.Errorf("posts queries = %v, want 1", byEntrypoint["posts"])
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	// Must not panic
	m.RecordBuild(Build(testSnapshot(), ranking.DefaultTuning().Search))
	m.RecordQuery("all", time.Millisecond)
}
