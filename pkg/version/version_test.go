package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must be set")
	}
	if !strings.HasPrefix(Version, "v") {
		t.Errorf("Version = %q, want a v-prefixed release", Version)
	}
	if strings.Count(Version, ".") < 2 {
		t.Errorf("Version = %q, want major.minor.patch", Version)
	}
}
