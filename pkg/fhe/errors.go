package fhe

import (
	"errors"
	"fmt"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

// Code classifies a failure. The numeric values are part of the C ABI.
type Code int32

const (
	CodeOK                   Code = 0
	CodeNullPointer          Code = -1
	CodeInvalidParam         Code = -2
	CodeCryptoFailure        Code = -3
	CodeSerializationFailure Code = -4
	CodeKeyNotFound          Code = -5
	CodeInternal             Code = -99
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNullPointer:
		return "null pointer"
	case CodeInvalidParam:
		return "invalid parameter"
	case CodeCryptoFailure:
		return "crypto failure"
	case CodeSerializationFailure:
		return "serialization failure"
	case CodeKeyNotFound:
		return "key not found"
	case CodeInternal:
		return "internal error"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

var (
	// ErrNullArgument indicates a required argument was nil
	ErrNullArgument = errors.New("fhe: null argument")

	// ErrInvalidParam indicates an argument was rejected before reaching the engine
	ErrInvalidParam = errors.New("fhe: invalid parameter")

	// ErrCrypto indicates the engine refused or failed the operation
	ErrCrypto = errors.New("fhe: cryptographic operation failed")

	// ErrSerialization indicates a payload could not be encoded or decoded
	ErrSerialization = errors.New("fhe: serialization failed")

	// ErrKeyNotFound indicates a missing relinearization or rotation key
	ErrKeyNotFound = errors.New("fhe: evaluation key not found")

	// ErrInternal indicates an unexpected failure, including recovered panics
	ErrInternal = errors.New("fhe: internal error")

	// ErrClosed indicates use of an object, or of key material, after Close
	ErrClosed = errors.New("fhe: object closed")
)

var sentinelCodes = []struct {
	err  error
	code Code
}{
	{ErrNullArgument, CodeNullPointer},
	{ErrInvalidParam, CodeInvalidParam},
	{ErrClosed, CodeInvalidParam},
	{ErrCrypto, CodeCryptoFailure},
	{ErrSerialization, CodeSerializationFailure},
	{ErrKeyNotFound, CodeKeyNotFound},
	{ErrInternal, CodeInternal},
}

// Error wraps an underlying error with the operation that failed and its
// classification.
type Error struct {
	Op   string // Operation that failed
	Code Code
	Err  error // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fhe.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the classification of err. Nil maps to CodeOK and errors
// this package did not produce map to CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return CodeInternal
}

var backendSentinels = []struct {
	from, to error
}{
	{backend.ErrInvalidParam, ErrInvalidParam},
	{backend.ErrCrypto, ErrCrypto},
	{backend.ErrSerialization, ErrSerialization},
	{backend.ErrKeyNotFound, ErrKeyNotFound},
	{backend.ErrReleased, ErrClosed},
}

// remapped keeps the backend message while answering errors.Is for the
// public sentinel.
type remapped struct {
	public error
	err    error
}

func (r *remapped) Error() string   { return r.err.Error() }
func (r *remapped) Unwrap() []error { return []error{r.public, r.err} }

// RemapError converts backend errors to public API errors.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range backendSentinels {
		if errors.Is(err, m.from) {
			return &remapped{public: m.to, err: err}
		}
	}
	return err
}

// wrapErr remaps err and tags it with op.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	err = RemapError(err)
	return &Error{Op: op, Code: CodeOf(err), Err: err}
}

func errorf(op string, sentinel error, format string, args ...interface{}) error {
	return &Error{
		Op:   op,
		Code: CodeOf(sentinel),
		Err:  fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// guard converts a panic raised below op into ErrInternal. It must be
// deferred directly.
func guard(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = &Error{Op: op, Code: CodeInternal, Err: fmt.Errorf("%w: panic: %v", ErrInternal, r)}
	}
}
