package fhe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

func TestRemapError(t *testing.T) {
	tests := []struct {
		in   error
		want error
		code Code
	}{
		{fmt.Errorf("%w: bad", backend.ErrInvalidParam), ErrInvalidParam, CodeInvalidParam},
		{fmt.Errorf("%w: engine", backend.ErrCrypto), ErrCrypto, CodeCryptoFailure},
		{fmt.Errorf("%w: truncated", backend.ErrSerialization), ErrSerialization, CodeSerializationFailure},
		{fmt.Errorf("%w: no key", backend.ErrKeyNotFound), ErrKeyNotFound, CodeKeyNotFound},
		{fmt.Errorf("%w: key", backend.ErrReleased), ErrClosed, CodeInvalidParam},
	}
	for _, tt := range tests {
		got := RemapError(tt.in)
		if !errors.Is(got, tt.want) {
			t.Errorf("RemapError(%v) is not %v", tt.in, tt.want)
		}
		if !errors.Is(got, tt.in) {
			t.Errorf("RemapError(%v) lost the original error", tt.in)
		}
		if got.Error() != tt.in.Error() {
			t.Errorf("RemapError changed message to %q", got.Error())
		}
		if c := CodeOf(wrapErr("Op", tt.in)); c != tt.code {
			t.Errorf("CodeOf(%v) = %v, want %v", tt.in, c, tt.code)
		}
	}

	if RemapError(nil) != nil {
		t.Error("RemapError(nil) != nil")
	}
	other := errors.New("other")
	if RemapError(other) != other {
		t.Error("unclassified errors must pass through")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != CodeOK {
		t.Error("CodeOf(nil) != CodeOK")
	}
	if CodeOf(errors.New("x")) != CodeInternal {
		t.Error("foreign error should be internal")
	}
	if CodeOf(fmt.Errorf("wrapped: %w", ErrKeyNotFound)) != CodeKeyNotFound {
		t.Error("sentinel not classified")
	}
}

func TestErrorFormat(t *testing.T) {
	err := errorf("Rotate", ErrKeyNotFound, "index %d", 3)
	want := "fhe.Rotate: fhe: evaluation key not found: index 3"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Op != "Rotate" || fe.Code != CodeKeyNotFound {
		t.Fatalf("unexpected error shape %#v", err)
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	f := func() (err error) {
		defer guard("Explode", &err)
		panic("boom")
	}
	err := f()
	if !errors.Is(err, ErrInternal) || CodeOf(err) != CodeInternal {
		t.Fatalf("guard produced %v", err)
	}
}

func TestCodeString(t *testing.T) {
	if CodeKeyNotFound.String() != "key not found" || Code(5).String() != "Code(5)" {
		t.Fatal("unexpected Code strings")
	}
}
