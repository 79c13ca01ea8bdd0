package router

import (
	"errors"
	"fmt"

	"github.com/DukeRupert/kuidash/internal/domain"
)

// FailureType classifies a navigation that did not complete.
type FailureType int

const (
	// FailureAborted means a guard returned Abort.
	FailureAborted FailureType = iota + 1
	// FailureCancelled means a newer navigation superseded this one.
	FailureCancelled
	// FailureDuplicated means the target is the current location.
	FailureDuplicated
)

func (t FailureType) String() string {
	switch t {
	case FailureAborted:
		return "aborted"
	case FailureCancelled:
		return "cancelled"
	case FailureDuplicated:
		return "duplicated"
	default:
		return "unknown"
	}
}

// NavigationFailure is returned by Run when a navigation ends without
// reaching its target. It is an ordinary outcome, not a fault.
type NavigationFailure struct {
	Type FailureType
	To   domain.Location
	From domain.Location
}

func (f *NavigationFailure) Error() string {
	return fmt.Sprintf("navigation %s: %q -> %q", f.Type, f.From.FullPath, f.To.FullPath)
}

// IsNavigationFailure reports whether err is a navigation failure of the
// given type. A zero type matches any failure.
func IsNavigationFailure(err error, t FailureType) bool {
	var f *NavigationFailure
	if !errors.As(err, &f) {
		return false
	}
	return t == 0 || f.Type == t
}
