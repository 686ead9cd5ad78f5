package errclass

import "fmt"

// WardrobeError is a stable, machine-readable error class.
type WardrobeError struct {
	Code    string
	Message string
}

func (e *WardrobeError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WardrobeError) Is(target error) bool {
	t, ok := target.(*WardrobeError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new WardrobeError with the same Code but a specific message.
func (e *WardrobeError) WithMessage(msg string) *WardrobeError {
	return &WardrobeError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new WardrobeError with a formatted message.
func (e *WardrobeError) WithMessagef(format string, args ...any) *WardrobeError {
	return &WardrobeError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes (10 total).
var (
	// ErrLockBusy reports that the lock directory already exists, i.e. some
	// other process holds the lock.
	ErrLockBusy = &WardrobeError{Code: "E_LOCK_BUSY"}
	// ErrAlreadyLocked and ErrNotLocked report lock API misuse by this
	// process (locking twice, releasing without holding).
	ErrAlreadyLocked = &WardrobeError{Code: "E_ALREADY_LOCKED"}
	ErrNotLocked     = &WardrobeError{Code: "E_NOT_LOCKED"}
	// ErrTypeMismatch reports a value of the wrong type supplied to a typed
	// field (option, filter value, config key). Never coerced.
	ErrTypeMismatch = &WardrobeError{Code: "E_TYPE_MISMATCH"}
	// ErrSettingCombination reports an inconsistent combination of place
	// fields, detected at render time.
	ErrSettingCombination = &WardrobeError{Code: "E_SETTING_COMBINATION"}
	// ErrExitStatus carries a non-zero exit of the wrapped tool.
	ErrExitStatus = &WardrobeError{Code: "E_EXIT_STATUS"}
	// ErrNotFound reports an unknown job, option, or filter name.
	ErrNotFound = &WardrobeError{Code: "E_NOT_FOUND"}
	// ErrConfigInvalid aggregates configuration file problems.
	ErrConfigInvalid = &WardrobeError{Code: "E_CONFIG_INVALID"}
	// ErrNameInvalid reports a malformed host or job identifier.
	ErrNameInvalid = &WardrobeError{Code: "E_NAME_INVALID"}
	// ErrJournalChainBroken reports a journal record whose hash chain does
	// not verify.
	ErrJournalChainBroken = &WardrobeError{Code: "E_JOURNAL_CHAIN_BROKEN"}
)
