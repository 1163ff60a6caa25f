package instance

import "testing"

func TestGetID(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("HOSTNAME", "")
	if got := GetID(); got != "local" {
		t.Fatalf("expected local, got %q", got)
	}

	t.Setenv("HOSTNAME", "api-7f9c")
	if got := GetID(); got != "api-7f9c" {
		t.Fatalf("expected hostname, got %q", got)
	}

	t.Setenv("DYNO", "web.1")
	if got := GetID(); got != "web.1" {
		t.Fatalf("expected dyno, got %q", got)
	}
}
