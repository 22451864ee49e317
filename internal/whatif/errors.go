package whatif

import (
	stderrors "errors"

	"tca-workers/internal/common/errors"
	"tca-workers/internal/report"
)

// JobError maps session failures and a missing report onto job error codes.
// Anything else is returned unchanged.
func JobError(err error, sessionKey string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsStandardError(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, report.ErrNotFound), stderrors.Is(err, ErrNoAnalysisData):
		return errors.NewAnalysisRequiredError(sessionKey)
	case stderrors.Is(err, ErrSessionLocked):
		return errors.NewWhatIfLockedError("sessionKey: " + sessionKey)
	case stderrors.Is(err, ErrUnknownModule):
		return errors.NewUnknownModuleError(err.Error())
	case stderrors.Is(err, ErrNotLoaded):
		return errors.NewAnalysisRequiredError(sessionKey)
	}
	return err
}
