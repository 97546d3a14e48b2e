package abi

import (
	"errors"
	"fmt"
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

// Status is the result of a flat call. The values are fixed by the C ABI.
type Status int32

const (
	StatusOK                   = Status(fhe.CodeOK)
	StatusNullPointer          = Status(fhe.CodeNullPointer)
	StatusInvalidParam         = Status(fhe.CodeInvalidParam)
	StatusCryptoFailure        = Status(fhe.CodeCryptoFailure)
	StatusSerializationFailure = Status(fhe.CodeSerializationFailure)
	StatusKeyNotFound          = Status(fhe.CodeKeyNotFound)
	StatusInternal             = Status(fhe.CodeInternal)
)

func (s Status) String() string { return fhe.Code(s).String() }

// statusOf classifies err. Registry failures are caller mistakes and count
// as invalid parameters.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, registry.ErrUnknownHandle), errors.Is(err, registry.ErrKindMismatch):
		return StatusInvalidParam
	default:
		return Status(fhe.CodeOf(err))
	}
}

// fail records err as the calling thread's diagnostic and returns its
// status.
func fail(op string, err error) Status {
	st := statusOf(err)
	setLastError(fmt.Sprintf("%s: %v", op, err))
	return st
}

// null reports a missing argument.
func null(op, what string) Status {
	setLastError(fmt.Sprintf("%s: %s is null", op, what))
	return StatusNullPointer
}

func invalid(op, format string, args ...any) Status {
	setLastError(op + ": " + fmt.Sprintf(format, args...))
	return StatusInvalidParam
}

// Reject fails op with StatusInvalidParam for an argument a foreign-language
// adapter cannot convert, such as a C length beyond the Go address space.
func Reject(op, format string, args ...any) (st Status) {
	defer guard(op, time.Now(), &st)
	return invalid(op, format, args...)
}
