package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Fatal("build metadata must be initialized")
	}
	s := String()
	if !strings.HasPrefix(s, Version+" ") {
		t.Errorf("String() = %q, want prefix %q", s, Version)
	}
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("String() = %q, missing commit", s)
	}
}
