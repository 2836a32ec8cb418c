package version

import "testing"

func TestInfo(t *testing.T) {
	t.Parallel()

	got := Info("teampulse-api")
	if got.Service != "teampulse-api" {
		t.Fatalf("service = %q, want teampulse-api", got.Service)
	}
	if got.Version != "dev" || got.Commit != "none" || got.Date != "unknown" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestInfo_EmptyServiceFallsBack(t *testing.T) {
	t.Parallel()

	if got := Info(""); got.Service != "teampulse" {
		t.Fatalf("service = %q, want teampulse", got.Service)
	}
}
