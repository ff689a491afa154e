package storage

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return s
}

func TestSaveShapeRun(t *testing.T) {
	s := setupTestDB(t)

	shape := []float64{3, 2, 1, 0, 1, 2, 3}
	run, err := s.SaveShapeRun("sfgk", map[string]float64{"mu": 10}, 10000, 2, shape)
	if err != nil {
		t.Fatalf("SaveShapeRun failed: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("run was not assigned an ID")
	}

	points, err := s.ShapeForRun(run.ID)
	if err != nil {
		t.Fatalf("ShapeForRun failed: %v", err)
	}
	if len(points) != len(shape) {
		t.Fatalf("got %d points, want %d", len(points), len(shape))
	}
	if points[0].Distance != -3 || points[len(points)-1].Distance != 3 {
		t.Errorf("distance range = [%d, %d], want [-3, 3]",
			points[0].Distance, points[len(points)-1].Distance)
	}
	for i, p := range points {
		if p.AvgQty != shape[i] {
			t.Errorf("point %d AvgQty = %g, want %g", i, p.AvgQty, shape[i])
		}
	}
}

func TestSaveEstimate(t *testing.T) {
	s := setupTestDB(t)

	run, err := s.SaveEstimate("mid_price_up", map[string]int{"queue_size": 5}, 100000, 0.503)
	if err != nil {
		t.Fatalf("SaveEstimate failed: %v", err)
	}
	if run.Events != 100000 {
		t.Errorf("run.Events = %d, want 100000", run.Events)
	}

	ests, err := s.EstimatesByName("mid_price_up")
	if err != nil {
		t.Fatalf("EstimatesByName failed: %v", err)
	}
	if len(ests) != 1 {
		t.Fatalf("got %d estimates, want 1", len(ests))
	}
	want := decimal.NewFromFloat(0.503)
	if !ests[0].Probability.Equal(want) {
		t.Errorf("probability = %s, want %s", ests[0].Probability, want)
	}
	if ests[0].Trials != 100000 {
		t.Errorf("trials = %d, want 100000", ests[0].Trials)
	}
}

func TestRecentRuns(t *testing.T) {
	s := setupTestDB(t)

	if _, err := s.SaveEstimate("first", nil, 10, 0.1); err != nil {
		t.Fatalf("SaveEstimate failed: %v", err)
	}
	if _, err := s.SaveEstimate("second", nil, 10, 0.2); err != nil {
		t.Fatalf("SaveEstimate failed: %v", err)
	}

	runs, err := s.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Model != "second" {
		t.Errorf("latest run = %q, want second", runs[0].Model)
	}
}
