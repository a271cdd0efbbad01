package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q, want dev", got)
	}

	old := [3]string{Version, GitCommit, BuildDate}
	defer func() { Version, GitCommit, BuildDate = old[0], old[1], old[2] }()
	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"

	if got := GetVersion(); got != "1.2.0" {
		t.Errorf("GetVersion() = %q", got)
	}
	if got, want := GetFullVersion(), "1.2.0 (abc123, built 2026-01-02)"; got != want {
		t.Errorf("GetFullVersion() = %q, want %q", got, want)
	}
}
