package version

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, dirty string) {
	t.Helper()
	oldVersion, oldDirty := Version, Dirty
	Version, Dirty = version, dirty
	t.Cleanup(func() { Version, Dirty = oldVersion, oldDirty })
}

func TestString(t *testing.T) {
	withBuild(t, "1.2.0", "false")
	if got := String(); got != "1.2.0" {
		t.Errorf("String() = %q", got)
	}

	withBuild(t, "1.2.0", "true")
	if got := String(); got != "1.2.0-dirty" {
		t.Errorf("String() = %q", got)
	}
}

func TestFull(t *testing.T) {
	withBuild(t, "1.2.0", "true")
	out := Full()
	if !strings.HasPrefix(out, "menucart 1.2.0-dirty\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Dirty:      yes") {
		t.Errorf("dirty flag missing: %q", out)
	}
	if !Get().Dirty {
		t.Error("Get().Dirty = false")
	}
}
