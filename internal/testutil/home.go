// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir and returns a function restoring the old value.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if runtime.GOOS == "windows" {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}

// IsolateConfig points both the home directory and XDG_CONFIG_HOME at
// fresh temporary directories for the duration of t and returns the config
// home. Tests using it must not run in parallel.
func IsolateConfig(t testing.TB) string {
	t.Helper()

	configHome := t.TempDir()
	t.Cleanup(SetHomeDir(t, t.TempDir()))
	t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", configHome))
	t.Cleanup(MustSetenv(t, "APPDATA", configHome))
	return configHome
}
