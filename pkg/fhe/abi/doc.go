// Package abi is the flat call surface of the fhe library: opaque integer
// handles instead of Go pointers, a Status return on every fallible call,
// results through out-parameters and a per-thread diagnostic string.
//
// It exists for the C ABI in internal/capi, but is plain Go and can be
// driven directly. A Go caller that wants LastError to describe its own
// failure must keep the goroutine on one OS thread across the call and the
// LastError read:
//
//	runtime.LockOSThread()
//	defer runtime.UnlockOSThread()
//	if st := abi.EvalAdd(ctx, a, b, &out); st != abi.StatusOK {
//		log.Printf("EvalAdd: %s: %s", st, abi.LastError())
//	}
//
// Handles are never reused. Destroying an unknown or already destroyed
// handle does nothing. Handles returned by KeyPairGetPublicKey and
// KeyPairGetPrivateKey are views: destroying them never releases the key
// pair's material.
package abi
