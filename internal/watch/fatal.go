// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"runtime"
	"syscall"
)

// Win32 codes surfaced by ReadDirectoryChangesW when the watch is unusable.
const (
	winTooManyOpenFiles = syscall.Errno(4)
	winInvalidHandle    = syscall.Errno(6)
	winNotEnoughMemory  = syscall.Errno(8)
)

// isFatalFsnotifyError reports errors after which the OS watcher cannot
// recover: exhausted inotify watches or descriptors, or on Windows a dead
// directory handle.
func isFatalFsnotifyError(err error) bool {
	if runtime.GOOS == "windows" {
		return errors.Is(err, winTooManyOpenFiles) ||
			errors.Is(err, winInvalidHandle) ||
			errors.Is(err, winNotEnoughMemory)
	}
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
