package main

import (
	"errors"

	snaperrors "codesnap/internal/errors"
)

// Exit codes per the documented CLI surface: 0 success, 1 usage error,
// 2 I/O error, 3 internal error.
const (
	exitSuccess     = 0
	exitUsageError  = 1
	exitIOError     = 2
	exitInternalErr = 3
)

// exitCodeFor maps a SnapshotError's code to the CLI's exit code
// convention. Errors that aren't a *SnapshotError are treated as internal.
func exitCodeFor(err error) int {
	var se *snaperrors.SnapshotError
	if !errors.As(err, &se) {
		return exitInternalErr
	}

	switch se.Code {
	case snaperrors.ValidationError:
		return exitUsageError
	case snaperrors.FileErrorCode, snaperrors.ConfigError:
		return exitIOError
	default:
		return exitInternalErr
	}
}
