package models

import (
	"testing"
	"time"
)

func TestNewMetricSampleFromStartedRecord(t *testing.T) {
	routed := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	started := routed.Add(3 * time.Minute)
	completed := routed.Add(10 * time.Minute)

	record := &RoutingRecord{ID: 5, StationID: 2, RoutedAt: routed, StartedAt: &started}
	sample := NewMetricSample(record, completed)

	if sample.StationID != 2 || sample.RecordID != 5 {
		t.Fatalf("unexpected sample identity: %+v", sample)
	}
	if sample.DurationSeconds != 420 {
		t.Fatalf("expected duration from started_at (420s), got %d", sample.DurationSeconds)
	}
	if sample.ShiftDate != "2026-08-30" || sample.HourBucket != 18 {
		t.Fatalf("unexpected bucketing: %s / %d", sample.ShiftDate, sample.HourBucket)
	}
}

func TestNewMetricSampleFallsBackToRoutedAt(t *testing.T) {
	routed := time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC)
	record := &RoutingRecord{ID: 1, StationID: 1, RoutedAt: routed}

	sample := NewMetricSample(record, routed.Add(90*time.Second))
	if sample.DurationSeconds != 90 {
		t.Fatalf("expected duration from routed_at (90s), got %d", sample.DurationSeconds)
	}
}

func TestPrepDurationNeverNegative(t *testing.T) {
	routed := time.Now()
	record := &RoutingRecord{RoutedAt: routed}
	if got := record.PrepDuration(routed.Add(-time.Minute)); got != 0 {
		t.Fatalf("expected clamp to zero, got %v", got)
	}
}

func TestStationEstimatedPrepSeconds(t *testing.T) {
	station := &Station{Config: JSON{"estimated_prep_seconds": float64(240)}}
	if got := station.EstimatedPrepSeconds(300); got != 240 {
		t.Fatalf("expected config value 240, got %d", got)
	}

	bare := &Station{}
	if got := bare.EstimatedPrepSeconds(300); got != 300 {
		t.Fatalf("expected fallback 300, got %d", got)
	}
}
