package cli

import (
	"context"
	"errors"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalid     = 2 // bad arguments, config or block fields
	ExitStore       = 3 // the store is unreachable or holds corrupt data
	ExitInterrupted = 130
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errs.Invalid(err):
		return ExitInvalid
	case errs.Is(err, errs.ErrCodeStoreUnavailable), errs.Is(err, errs.ErrCodePersistenceCorrupt):
		return ExitStore
	}
	return ExitFailure
}
