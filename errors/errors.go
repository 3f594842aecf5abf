package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled. The token service returns it when a
	// transfer or authority change is signed by the wrong party.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrDuplicate is returned when there is a record already that has
	// the same unique key/index used.
	ErrDuplicate = Register(4, "duplicate")

	// ErrHuman is returned when the application reaches a code path
	// which should not ever be reached if the code was written as
	// expected by the framework.
	ErrHuman = Register(5, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(6, "value is empty")

	// ErrState is returned when an object is in an invalid state.
	ErrState = Register(7, "invalid state")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(8, "invalid input")

	// ErrMissingSignature is returned when an account that must sign an
	// instruction was not supplied as a signer.
	ErrMissingSignature = Register(20, "missing required signature")

	// ErrIncorrectProgram is returned when an account claimed to belong
	// to a program is owned by someone else.
	ErrIncorrectProgram = Register(21, "incorrect program")

	// ErrAlreadyInitialized is returned on an attempt to initialize a
	// record that was initialized before.
	ErrAlreadyInitialized = Register(22, "account already initialized")

	// ErrNotRentExempt is returned when a state account's balance is
	// below the rent-exemption threshold for its data length.
	ErrNotRentExempt = Register(23, "not rent exempt")

	// ErrInvalidAccountData is returned when stored account state does
	// not match the accounts supplied with the call.
	ErrInvalidAccountData = Register(24, "invalid account data")

	// ErrAmountMismatch is returned when a caller-declared amount does
	// not equal the live on-ledger balance.
	ErrAmountMismatch = Register(25, "expected amount mismatch")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(26, "amount overflow")

	// ErrInvalidInstruction is returned when an instruction buffer
	// cannot be decoded.
	ErrInvalidInstruction = Register(27, "invalid instruction")

	// ErrInsufficientFunds is returned when an account balance is lower
	// than the amount to be moved.
	ErrInsufficientFunds = Register(28, "insufficient funds")

	// ErrAccountInUse is returned when an invocation loses the account
	// lock admission to a concurrent conflicting invocation.
	ErrAccountInUse = Register(29, "account in use")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may want
// to declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No
// two error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for non-ledger errors and must not be used.
}

// Error represents a root error.
//
// The framework categorizes issues by root error. Each instance created
// during the runtime should wrap one of the declared root errors. This
// allows error tests and returning all errors to the client in a safe
// manner.
//
// All popular root errors are declared in this package. If an extension has
// to declare a custom root error, always use the Register function to
// ensure error code uniqueness.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the stable numeric identifier of this error kind.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. The returned instance has the root cause set to
// this error. Below two lines are equal:
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks if the given error instance is of a given kind/type. This
// involves unwrapping the given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends the given error with additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet,
	// attach one. This should be done only once per error at the lowest
	// frame possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends the given error with additional information.
//
// This function works like Wrap with the additional functionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap makes wrapped errors compatible with the standard library
// errors.Is/As traversal.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// CodeOf returns the stable code of the root this error wraps, or the
// internal code 1 for errors from outside the registry.
func CodeOf(err error) uint32 {
	for {
		if e, ok := err.(interface{ Code() uint32 }); ok {
			return e.Code()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return 1
		}
	}
}

// Recover captures a panic and stops its propagation. If a panic happens it
// is transformed into an ErrPanic instance and assigned to the given error.
// Call this function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping.
// Use it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}
