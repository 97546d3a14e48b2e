//go:build cgo && !windows

package bindings

/*
#include <stdlib.h>
#include <string.h>
#include "cbfhe.h"
*/
import "C"

import (
	"slices"
	"unsafe"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
)

// The helpers below let Go code act as a C caller of the cbfhe_* entry
// points: C-allocated inputs, C-typed scalars and reads of C outputs.

type (
	cHandle = C.cbfhe_handle
	cStatus = C.cbfhe_status
	cSize   = C.size_t
)

// cmem is a block of C heap memory owned by its creator.
type cmem struct {
	p unsafe.Pointer
	n int
}

// cCopy copies b into a fresh C allocation.
func cCopy(b []byte) *cmem {
	m := &cmem{p: C.malloc(C.size_t(max(len(b), 1))), n: len(b)}
	if len(b) > 0 {
		C.memcpy(m.p, unsafe.Pointer(&b[0]), C.size_t(len(b)))
	}
	return m
}

func (m *cmem) bytes() *C.uint8_t { return (*C.uint8_t)(m.p) }
func (m *cmem) size() C.size_t { return C.size_t(m.n) }
func (m *cmem) free() { C.free(m.p) }

func cformat(f abi.Format) C.int32_t { return C.int32_t(f) }

func newParams() *C.cbfhe_bgv_params { return new(C.cbfhe_bgv_params) }
func newBuffer() *C.cbfhe_buffer { return new(C.cbfhe_buffer) }
func newUint32() *C.uint32_t { return new(C.uint32_t) }

func int64s(v []int64) *C.int64_t { return (*C.int64_t)(unsafe.Pointer(unsafe.SliceData(v))) }
func int32s(v []int32) *C.int32_t { return (*C.int32_t)(unsafe.Pointer(unsafe.SliceData(v))) }
func handles(v []abi.Handle) *C.cbfhe_handle { return (*C.cbfhe_handle)(unsafe.Pointer(unsafe.SliceData(v))) }
func chars(b []byte) *C.char { return (*C.char)(unsafe.Pointer(unsafe.SliceData(b))) }

// bufferBytes copies the contents of a library-filled buffer.
func bufferBytes(buf *C.cbfhe_buffer) []byte {
	if buf.data == nil {
		return nil
	}
	return slices.Clone(unsafe.Slice((*byte)(unsafe.Pointer(buf.data)), int(buf.size)))
}
