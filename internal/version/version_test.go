package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String("lvm-batch")
	if !strings.HasPrefix(got, "lvm-batch "+Version) {
		t.Errorf("String() = %q, want prefix %q", got, "lvm-batch "+Version)
	}
	if !strings.Contains(got, GitSHA) {
		t.Errorf("String() = %q, missing commit %q", got, GitSHA)
	}
}
