// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func setBuildVariables(t *testing.T, version, commit, dirty, buildTime string) {
	t.Helper()
	saved := [4]string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = saved[0], saved[1], saved[2], saved[3]
	})
	Version, GitCommit, GitDirty, BuildTime = version, commit, dirty, buildTime
}

func TestInfo(t *testing.T) {
	setBuildVariables(t, "1.2.0", "abc1234", "false", "2026-03-01T00:00:00Z")
	if got, want := Info(), "1.2.0 (abc1234, 2026-03-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want -dirty suffix", got)
	}
}

func TestFull(t *testing.T) {
	setBuildVariables(t, "1.2.0", "abc1234", "false", "now")
	full := Full()
	for _, want := range []string{"1.2.0", runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}

func TestCurrent(t *testing.T) {
	setBuildVariables(t, "1.2.0", "abc1234", "true", "now")
	info := Current()
	if info.Version != "1.2.0" || info.Commit != "abc1234" || !info.Dirty || info.BuildTime != "now" {
		t.Errorf("Current() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}
