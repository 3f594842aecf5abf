package errors

import (
	"github.com/pkg/errors"
)

// stackTracer is implemented by errors that carry a call stack, as produced
// by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the deepest stack trace this error chain carries, or
// nil when none was attached yet.
func stackTrace(err error) errors.StackTrace {
	var deepest errors.StackTrace
	for ; err != nil; err = unwrap(err) {
		if st, ok := err.(stackTracer); ok {
			deepest = st.StackTrace()
		}
	}
	return deepest
}

func unwrap(err error) error {
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return nil
}
