package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string, bi *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead })

	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestShort(t *testing.T) {
	stamp(t, "v1.2.0", "0123456789abcdef", "2026-01-02", nil)
	if got := Short(); got != "v1.2.0 (0123456)" {
		t.Errorf("Short() = %q", got)
	}
	Commit = "abc"
	if got := Short(); got != "v1.2.0 (abc)" {
		t.Errorf("Short() = %q", got)
	}
}

func TestGetFallsBackToEmbeddedInfo(t *testing.T) {
	stamp(t, "dev", "none", "unknown", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "feedfacecafe"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		},
	})

	want := Info{Version: "v0.3.1", Commit: "feedfacecafe", Date: "2026-03-04T05:06:07Z"}
	if got := Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetPrefersStampedValues(t *testing.T) {
	stamp(t, "v1.0.0", "abc1234", "2026-01-01", &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
	})

	want := Info{Version: "v1.0.0", Commit: "abc1234", Date: "2026-01-01"}
	if got := Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetIgnoresDevelVersion(t *testing.T) {
	stamp(t, "dev", "none", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v2.0.0", "c0ffee", "2026-05-06", nil)
	tmpl := Template()
	for _, want := range []string{"{{.Name}} version: v2.0.0", "commit: c0ffee", "built: 2026-05-06"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
