package utils

import (
	"context"
	"errors"
	"testing"
)

func TestCheckHealthRecordsEachService(t *testing.T) {
	pingers := []Pinger{
		PingFunc{Label: "mongo", Fn: func(context.Context) error { return nil }},
		PingFunc{Label: "redis", Fn: func(context.Context) error { return errors.New("down") }},
	}
	status := CheckHealth(context.Background(), pingers)

	if !status.Services["mongo"] || status.Services["redis"] {
		t.Fatalf("unexpected services map %+v", status.Services)
	}
	if status.Healthy() {
		t.Fatalf("expected unhealthy overall status")
	}
	if got := GetHealthStatus(); got.CheckedAt != status.CheckedAt {
		t.Fatalf("snapshot not stored")
	}
}
