package build

import (
	"testing"
)

func TestReleaseNumber(t *testing.T) {
	if got := releaseNumber([3]int{1, 2, 3}, 0); got != "1.2.3" {
		t.Fatalf("expected 1.2.3, got %q", got)
	}
	if got := releaseNumber([3]int{0, 4, 0}, 2); got != "0.4.0-rc2" {
		t.Fatalf("expected 0.4.0-rc2, got %q", got)
	}
	if BuildVersion != releaseNumber(BuildVersionArray, BuildVersionRC) {
		t.Fatalf("BuildVersion %q does not follow BuildVersionArray", BuildVersion)
	}
}

func TestUserVersionIgnoreCommit(t *testing.T) {
	old := CurrentCommit
	CurrentCommit = "+abcdef12"
	defer func() { CurrentCommit = old }()

	t.Setenv("TSMERGE_VERSION_IGNORE_COMMIT", "1")
	if UserVersion() != BuildVersion {
		t.Fatalf("expected %q, got %q", BuildVersion, UserVersion())
	}

	t.Setenv("TSMERGE_VERSION_IGNORE_COMMIT", "")
	if UserVersion() != BuildVersion+"+abcdef12" {
		t.Fatalf("commit missing from %q", UserVersion())
	}
}
