// Command libcbfhe builds the C shared library:
//
//	go build -buildmode=c-shared -o libcbfhe.so ./cmd/libcbfhe
//
// The generated libcbfhe.h declares the cbfhe_* entry points; it includes
// internal/bindings/cbfhe.h for the shared types.
package main

import (
	_ "github.com/coinbase/cb-fhe-go/internal/bindings"
)

func main() {}
