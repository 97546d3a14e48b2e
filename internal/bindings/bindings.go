//go:build cgo && !windows

// Package bindings exports the flat fhe boundary as C functions. Build it
// into a shared library with cmd/libcbfhe; cbfhe.h declares the types.
package bindings

/*
#include <stdlib.h>
#include <string.h>
#include "cbfhe.h"
*/
import "C"

import (
	"bytes"
	"math"
	"slices"
	"unsafe"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
)

func Available() bool { return true }

func st(s abi.Status) C.cbfhe_status { return C.cbfhe_status(s) }

// hp reinterprets a C handle out-parameter. Both sides are 64-bit unsigned.
func hp(p *C.cbfhe_handle) *abi.Handle { return (*abi.Handle)(unsafe.Pointer(p)) }

func u32p(p *C.uint32_t) *uint32 { return (*uint32)(unsafe.Pointer(p)) }

func goParams(p *C.cbfhe_bgv_params) *fhe.Params {
	if p == nil {
		return nil
	}
	return &fhe.Params{
		MultiplicativeDepth: uint32(p.multiplicative_depth),
		PlaintextModulus:    uint64(p.plaintext_modulus),
		SecurityLevel:       uint32(p.security_level),
		RingDim:             uint32(p.ring_dim),
		BatchSize:           uint32(p.batch_size),
		MaxRelinSkDeg:       uint32(p.max_relin_sk_deg),
		FirstModSize:        uint32(p.first_mod_size),
		ScalingModSize:      uint32(p.scaling_mod_size),
		NumLargeDigits:      uint32(p.num_large_digits),
	}
}

// span converts a C element count for memory at p into a Go length. A
// count whose byte size runs past the end of the address space is rejected
// rather than narrowed.
func span[G any](op string, p unsafe.Pointer, n C.size_t) (int, abi.Status) {
	var zero G
	limit := (^uintptr(0) - uintptr(p)) / unsafe.Sizeof(zero)
	if uint64(n) > uint64(limit) || uint64(n) > math.MaxInt {
		return 0, abi.Reject(op, "length %d out of range", uint64(n))
	}
	return int(n), abi.StatusOK
}

// goBytes copies a caller buffer. A null pointer stays nil so the flat
// layer reports it.
func goBytes(op string, data *C.uint8_t, size C.size_t) ([]byte, abi.Status) {
	if data == nil {
		return nil, abi.StatusOK
	}
	n, s := span[byte](op, unsafe.Pointer(data), size)
	if s != abi.StatusOK {
		return nil, s
	}
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(data)), n)), abi.StatusOK
}

// cSlice copies n elements from C memory. The flat layer may retain what it
// is given, so it never sees C memory directly.
func cSlice[T, G any](op string, p *T, n C.size_t) ([]G, abi.Status) {
	if p == nil {
		return nil, abi.StatusOK
	}
	l, s := span[G](op, unsafe.Pointer(p), n)
	if s != abi.StatusOK {
		return nil, s
	}
	return slices.Clone(unsafe.Slice((*G)(unsafe.Pointer(p)), l)), abi.StatusOK
}

// fromBuffer runs a deserialize call over a copy of the caller's buffer.
func fromBuffer(op string, data *C.uint8_t, size C.size_t, call func([]byte) abi.Status) C.cbfhe_status {
	b, s := goBytes(op, data, size)
	if s != abi.StatusOK {
		return st(s)
	}
	return st(call(b))
}

// toBuffer runs a serialize call and moves its output into C memory.
func toBuffer(out *C.cbfhe_buffer, call func(*[]byte) abi.Status) C.cbfhe_status {
	if out == nil {
		return st(call(nil))
	}
	var b []byte
	if s := call(&b); s != abi.StatusOK {
		return st(s)
	}
	defer abi.SerializedDataFree(b)
	out.data = nil
	out.size = 0
	if len(b) > 0 {
		p := C.malloc(C.size_t(len(b)))
		C.memcpy(p, unsafe.Pointer(&b[0]), C.size_t(len(b)))
		out.data = (*C.uint8_t)(p)
	}
	out.size = C.size_t(len(b))
	return st(abi.StatusOK)
}

//export cbfhe_serialized_data_free
func cbfhe_serialized_data_free(buf *C.cbfhe_buffer) {
	if buf == nil || buf.data == nil {
		return
	}
	C.memset(unsafe.Pointer(buf.data), 0, buf.size)
	C.free(unsafe.Pointer(buf.data))
	buf.data = nil
	buf.size = 0
}

// cbfhe_last_error copies the calling thread's diagnostic into buf,
// truncated and NUL-terminated, and returns its full length.
//
//export cbfhe_last_error
func cbfhe_last_error(buf *C.char, capacity C.size_t) C.size_t {
	msg := abi.LastError()
	if buf != nil && capacity > 0 {
		n := min(uint64(capacity)-1, uint64(len(msg)))
		dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), n+1)
		dst[copy(dst, msg[:n])] = 0
	}
	return C.size_t(len(msg))
}

//export cbfhe_params_default
func cbfhe_params_default(out *C.cbfhe_bgv_params) C.cbfhe_status {
	if out == nil {
		return st(abi.StatusNullPointer)
	}
	p := abi.ParamsDefault()
	*out = C.cbfhe_bgv_params{
		multiplicative_depth: C.uint32_t(p.MultiplicativeDepth),
		plaintext_modulus:    C.uint64_t(p.PlaintextModulus),
		security_level:       C.uint32_t(p.SecurityLevel),
		ring_dim:             C.uint32_t(p.RingDim),
		batch_size:           C.uint32_t(p.BatchSize),
		max_relin_sk_deg:     C.uint32_t(p.MaxRelinSkDeg),
		first_mod_size:       C.uint32_t(p.FirstModSize),
		scaling_mod_size:     C.uint32_t(p.ScalingModSize),
		num_large_digits:     C.uint32_t(p.NumLargeDigits),
	}
	return st(abi.StatusOK)
}

//export cbfhe_context_create_bgv
func cbfhe_context_create_bgv(p *C.cbfhe_bgv_params, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.CryptoContextCreateBGV(goParams(p), hp(out)))
}

//export cbfhe_context_destroy
func cbfhe_context_destroy(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.CryptoContextDestroy(abi.Handle(ctx)))
}

//export cbfhe_enable_pke
func cbfhe_enable_pke(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EnablePKE(abi.Handle(ctx)))
}

//export cbfhe_enable_keyswitch
func cbfhe_enable_keyswitch(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EnableKeySwitch(abi.Handle(ctx)))
}

//export cbfhe_enable_leveled_she
func cbfhe_enable_leveled_she(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EnableLeveledSHE(abi.Handle(ctx)))
}

//export cbfhe_enable_advanced_she
func cbfhe_enable_advanced_she(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EnableAdvancedSHE(abi.Handle(ctx)))
}

//export cbfhe_enable_fhe
func cbfhe_enable_fhe(ctx C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EnableFHE(abi.Handle(ctx)))
}

//export cbfhe_get_ring_dim
func cbfhe_get_ring_dim(ctx C.cbfhe_handle, out *C.uint32_t) C.cbfhe_status {
	return st(abi.GetRingDim(abi.Handle(ctx), u32p(out)))
}

//export cbfhe_get_plaintext_modulus
func cbfhe_get_plaintext_modulus(ctx C.cbfhe_handle, out *C.uint64_t) C.cbfhe_status {
	return st(abi.GetPlaintextModulus(abi.Handle(ctx), (*uint64)(unsafe.Pointer(out))))
}

//export cbfhe_get_cyclotomic_order
func cbfhe_get_cyclotomic_order(ctx C.cbfhe_handle, out *C.uint32_t) C.cbfhe_status {
	return st(abi.GetCyclotomicOrder(abi.Handle(ctx), u32p(out)))
}

//export cbfhe_get_batch_size
func cbfhe_get_batch_size(ctx C.cbfhe_handle, out *C.uint32_t) C.cbfhe_status {
	return st(abi.GetBatchSize(abi.Handle(ctx), u32p(out)))
}

//export cbfhe_get_max_level
func cbfhe_get_max_level(ctx C.cbfhe_handle, out *C.uint32_t) C.cbfhe_status {
	return st(abi.GetMaxLevel(abi.Handle(ctx), u32p(out)))
}

//export cbfhe_keygen
func cbfhe_keygen(ctx C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.KeyGen(abi.Handle(ctx), hp(out)))
}

//export cbfhe_keypair_get_public_key
func cbfhe_keypair_get_public_key(kp C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.KeyPairGetPublicKey(abi.Handle(kp), hp(out)))
}

//export cbfhe_keypair_get_private_key
func cbfhe_keypair_get_private_key(kp C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.KeyPairGetPrivateKey(abi.Handle(kp), hp(out)))
}

//export cbfhe_keypair_destroy
func cbfhe_keypair_destroy(kp C.cbfhe_handle) C.cbfhe_status {
	return st(abi.KeyPairDestroy(abi.Handle(kp)))
}

//export cbfhe_public_key_destroy
func cbfhe_public_key_destroy(pk C.cbfhe_handle) C.cbfhe_status {
	return st(abi.PublicKeyDestroy(abi.Handle(pk)))
}

//export cbfhe_private_key_destroy
func cbfhe_private_key_destroy(sk C.cbfhe_handle) C.cbfhe_status {
	return st(abi.PrivateKeyDestroy(abi.Handle(sk)))
}

//export cbfhe_eval_mult_keys_gen
func cbfhe_eval_mult_keys_gen(ctx, sk C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalMultKeysGen(abi.Handle(ctx), abi.Handle(sk)))
}

//export cbfhe_eval_rotate_keys_gen
func cbfhe_eval_rotate_keys_gen(ctx, sk C.cbfhe_handle, indices *C.int32_t, count C.size_t) C.cbfhe_status {
	idx, s := cSlice[C.int32_t, int32]("EvalRotateKeysGen", indices, count)
	if s != abi.StatusOK {
		return st(s)
	}
	return st(abi.EvalRotateKeysGen(abi.Handle(ctx), abi.Handle(sk), idx))
}

//export cbfhe_eval_sum_keys_gen
func cbfhe_eval_sum_keys_gen(ctx, sk C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalSumKeysGen(abi.Handle(ctx), abi.Handle(sk)))
}

//export cbfhe_make_packed_plaintext
func cbfhe_make_packed_plaintext(ctx C.cbfhe_handle, values *C.int64_t, count C.size_t, out *C.cbfhe_handle) C.cbfhe_status {
	v, s := cSlice[C.int64_t, int64]("MakePackedPlaintext", values, count)
	if s != abi.StatusOK {
		return st(s)
	}
	return st(abi.MakePackedPlaintext(abi.Handle(ctx), v, hp(out)))
}

//export cbfhe_make_coef_packed_plaintext
func cbfhe_make_coef_packed_plaintext(ctx C.cbfhe_handle, values *C.int64_t, count C.size_t, out *C.cbfhe_handle) C.cbfhe_status {
	v, s := cSlice[C.int64_t, int64]("MakeCoefPackedPlaintext", values, count)
	if s != abi.StatusOK {
		return st(s)
	}
	return st(abi.MakeCoefPackedPlaintext(abi.Handle(ctx), v, hp(out)))
}

// cbfhe_plaintext_get_values copies at most max values into out and stores
// the count in n.
//
//export cbfhe_plaintext_get_values
func cbfhe_plaintext_get_values(pt C.cbfhe_handle, out *C.int64_t, max C.size_t, n *C.size_t) C.cbfhe_status {
	var dst []int64
	if out != nil {
		l, s := span[int64]("PlaintextGetValues", unsafe.Pointer(out), max)
		if s != abi.StatusOK {
			return st(s)
		}
		dst = unsafe.Slice((*int64)(unsafe.Pointer(out)), l)
	}
	var count int
	var np *int
	if n != nil {
		np = &count
	}
	s := abi.PlaintextGetValues(abi.Handle(pt), dst, np)
	if s == abi.StatusOK {
		*n = C.size_t(count)
	}
	return st(s)
}

//export cbfhe_plaintext_get_length
func cbfhe_plaintext_get_length(pt C.cbfhe_handle, out *C.size_t) C.cbfhe_status {
	var n int
	var np *int
	if out != nil {
		np = &n
	}
	s := abi.PlaintextGetLength(abi.Handle(pt), np)
	if s == abi.StatusOK {
		*out = C.size_t(n)
	}
	return st(s)
}

//export cbfhe_plaintext_set_length
func cbfhe_plaintext_set_length(pt C.cbfhe_handle, n C.size_t) C.cbfhe_status {
	if uint64(n) > math.MaxInt {
		return st(abi.Reject("PlaintextSetLength", "length %d out of range", uint64(n)))
	}
	return st(abi.PlaintextSetLength(abi.Handle(pt), int(n)))
}

//export cbfhe_plaintext_destroy
func cbfhe_plaintext_destroy(pt C.cbfhe_handle) C.cbfhe_status {
	return st(abi.PlaintextDestroy(abi.Handle(pt)))
}

//export cbfhe_encrypt
func cbfhe_encrypt(ctx, pk, pt C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.Encrypt(abi.Handle(ctx), abi.Handle(pk), abi.Handle(pt), hp(out)))
}

//export cbfhe_encrypt_private
func cbfhe_encrypt_private(ctx, sk, pt C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EncryptPrivate(abi.Handle(ctx), abi.Handle(sk), abi.Handle(pt), hp(out)))
}

//export cbfhe_decrypt
func cbfhe_decrypt(ctx, sk, ct C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.Decrypt(abi.Handle(ctx), abi.Handle(sk), abi.Handle(ct), hp(out)))
}

//export cbfhe_eval_add
func cbfhe_eval_add(ctx, a, b C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalAdd(abi.Handle(ctx), abi.Handle(a), abi.Handle(b), hp(out)))
}

//export cbfhe_eval_add_in_place
func cbfhe_eval_add_in_place(ctx, a, b C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalAddInPlace(abi.Handle(ctx), abi.Handle(a), abi.Handle(b)))
}

//export cbfhe_eval_add_plaintext
func cbfhe_eval_add_plaintext(ctx, a, pt C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalAddPlaintext(abi.Handle(ctx), abi.Handle(a), abi.Handle(pt), hp(out)))
}

//export cbfhe_eval_sub
func cbfhe_eval_sub(ctx, a, b C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalSub(abi.Handle(ctx), abi.Handle(a), abi.Handle(b), hp(out)))
}

//export cbfhe_eval_sub_in_place
func cbfhe_eval_sub_in_place(ctx, a, b C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalSubInPlace(abi.Handle(ctx), abi.Handle(a), abi.Handle(b)))
}

//export cbfhe_eval_sub_plaintext
func cbfhe_eval_sub_plaintext(ctx, a, pt C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalSubPlaintext(abi.Handle(ctx), abi.Handle(a), abi.Handle(pt), hp(out)))
}

//export cbfhe_eval_mult
func cbfhe_eval_mult(ctx, a, b C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalMult(abi.Handle(ctx), abi.Handle(a), abi.Handle(b), hp(out)))
}

//export cbfhe_eval_mult_in_place
func cbfhe_eval_mult_in_place(ctx, a, b C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalMultInPlace(abi.Handle(ctx), abi.Handle(a), abi.Handle(b)))
}

//export cbfhe_eval_mult_no_relin
func cbfhe_eval_mult_no_relin(ctx, a, b C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalMultNoRelin(abi.Handle(ctx), abi.Handle(a), abi.Handle(b), hp(out)))
}

//export cbfhe_eval_relinearize
func cbfhe_eval_relinearize(ctx, a C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalRelinearize(abi.Handle(ctx), abi.Handle(a), hp(out)))
}

//export cbfhe_eval_mult_plaintext
func cbfhe_eval_mult_plaintext(ctx, a, pt C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalMultPlaintext(abi.Handle(ctx), abi.Handle(a), abi.Handle(pt), hp(out)))
}

//export cbfhe_eval_mult_many
func cbfhe_eval_mult_many(ctx C.cbfhe_handle, cts *C.cbfhe_handle, count C.size_t, out *C.cbfhe_handle) C.cbfhe_status {
	hs, s := cSlice[C.cbfhe_handle, abi.Handle]("EvalMultMany", cts, count)
	if s != abi.StatusOK {
		return st(s)
	}
	return st(abi.EvalMultMany(abi.Handle(ctx), hs, hp(out)))
}

//export cbfhe_eval_negate
func cbfhe_eval_negate(ctx, a C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalNegate(abi.Handle(ctx), abi.Handle(a), hp(out)))
}

//export cbfhe_eval_negate_in_place
func cbfhe_eval_negate_in_place(ctx, a C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalNegateInPlace(abi.Handle(ctx), abi.Handle(a)))
}

//export cbfhe_eval_rotate
func cbfhe_eval_rotate(ctx, a C.cbfhe_handle, k C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalRotate(abi.Handle(ctx), abi.Handle(a), int32(k), hp(out)))
}

//export cbfhe_eval_rotate_in_place
func cbfhe_eval_rotate_in_place(ctx, a C.cbfhe_handle, k C.int32_t) C.cbfhe_status {
	return st(abi.EvalRotateInPlace(abi.Handle(ctx), abi.Handle(a), int32(k)))
}

//export cbfhe_eval_sum
func cbfhe_eval_sum(ctx, a C.cbfhe_handle, batch C.uint32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalSum(abi.Handle(ctx), abi.Handle(a), uint32(batch), hp(out)))
}

//export cbfhe_eval_inner_product
func cbfhe_eval_inner_product(ctx, a, b C.cbfhe_handle, batch C.uint32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalInnerProduct(abi.Handle(ctx), abi.Handle(a), abi.Handle(b), uint32(batch), hp(out)))
}

//export cbfhe_mod_reduce
func cbfhe_mod_reduce(ctx, a C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.ModReduce(abi.Handle(ctx), abi.Handle(a), hp(out)))
}

//export cbfhe_mod_reduce_in_place
func cbfhe_mod_reduce_in_place(ctx, a C.cbfhe_handle) C.cbfhe_status {
	return st(abi.ModReduceInPlace(abi.Handle(ctx), abi.Handle(a)))
}

//export cbfhe_ciphertext_get_level
func cbfhe_ciphertext_get_level(ct C.cbfhe_handle, out *C.uint32_t) C.cbfhe_status {
	return st(abi.CiphertextGetLevel(abi.Handle(ct), u32p(out)))
}

//export cbfhe_ciphertext_clone
func cbfhe_ciphertext_clone(ct C.cbfhe_handle, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.CiphertextClone(abi.Handle(ct), hp(out)))
}

//export cbfhe_ciphertext_destroy
func cbfhe_ciphertext_destroy(ct C.cbfhe_handle) C.cbfhe_status {
	return st(abi.CiphertextDestroy(abi.Handle(ct)))
}

// cbfhe_eval_bootstrap_setup takes two-element arrays; dim1 may be NULL.
//
//export cbfhe_eval_bootstrap_setup
func cbfhe_eval_bootstrap_setup(ctx C.cbfhe_handle, levelBudget, dim1 *C.uint32_t, slots, correctionFactor C.uint32_t) C.cbfhe_status {
	return st(abi.EvalBootstrapSetup(abi.Handle(ctx),
		(*[2]uint32)(unsafe.Pointer(levelBudget)),
		(*[2]uint32)(unsafe.Pointer(dim1)),
		uint32(slots), uint32(correctionFactor)))
}

//export cbfhe_eval_bootstrap_keygen
func cbfhe_eval_bootstrap_keygen(ctx, sk C.cbfhe_handle, slots C.uint32_t) C.cbfhe_status {
	return st(abi.EvalBootstrapKeyGen(abi.Handle(ctx), abi.Handle(sk), uint32(slots)))
}

//export cbfhe_eval_bootstrap
func cbfhe_eval_bootstrap(ctx, ct C.cbfhe_handle, iterations, precision C.uint32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return st(abi.EvalBootstrap(abi.Handle(ctx), abi.Handle(ct), uint32(iterations), uint32(precision), hp(out)))
}

//export cbfhe_serialize_context
func cbfhe_serialize_context(ctx C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializeContext(abi.Handle(ctx), abi.Format(format), b) })
}

//export cbfhe_deserialize_context
func cbfhe_deserialize_context(data *C.uint8_t, size C.size_t, format C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return fromBuffer("DeserializeContext", data, size, func(b []byte) abi.Status {
		return abi.DeserializeContext(b, abi.Format(format), hp(out))
	})
}

//export cbfhe_serialize_public_key
func cbfhe_serialize_public_key(pk C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializePublicKey(abi.Handle(pk), abi.Format(format), b) })
}

//export cbfhe_deserialize_public_key
func cbfhe_deserialize_public_key(data *C.uint8_t, size C.size_t, format C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return fromBuffer("DeserializePublicKey", data, size, func(b []byte) abi.Status {
		return abi.DeserializePublicKey(b, abi.Format(format), hp(out))
	})
}

//export cbfhe_serialize_private_key
func cbfhe_serialize_private_key(sk C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializePrivateKey(abi.Handle(sk), abi.Format(format), b) })
}

//export cbfhe_deserialize_private_key
func cbfhe_deserialize_private_key(data *C.uint8_t, size C.size_t, format C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return fromBuffer("DeserializePrivateKey", data, size, func(b []byte) abi.Status {
		defer fhe.ZeroizeBytes(b)
		return abi.DeserializePrivateKey(b, abi.Format(format), hp(out))
	})
}

//export cbfhe_serialize_plaintext
func cbfhe_serialize_plaintext(pt C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializePlaintext(abi.Handle(pt), abi.Format(format), b) })
}

//export cbfhe_deserialize_plaintext
func cbfhe_deserialize_plaintext(ctx C.cbfhe_handle, data *C.uint8_t, size C.size_t, format C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return fromBuffer("DeserializePlaintext", data, size, func(b []byte) abi.Status {
		return abi.DeserializePlaintext(abi.Handle(ctx), b, abi.Format(format), hp(out))
	})
}

//export cbfhe_serialize_ciphertext
func cbfhe_serialize_ciphertext(ct C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializeCiphertext(abi.Handle(ct), abi.Format(format), b) })
}

//export cbfhe_deserialize_ciphertext
func cbfhe_deserialize_ciphertext(ctx C.cbfhe_handle, data *C.uint8_t, size C.size_t, format C.int32_t, out *C.cbfhe_handle) C.cbfhe_status {
	return fromBuffer("DeserializeCiphertext", data, size, func(b []byte) abi.Status {
		return abi.DeserializeCiphertext(abi.Handle(ctx), b, abi.Format(format), hp(out))
	})
}

//export cbfhe_serialize_eval_mult_keys
func cbfhe_serialize_eval_mult_keys(ctx C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status { return abi.SerializeEvalMultKeys(abi.Handle(ctx), abi.Format(format), b) })
}

//export cbfhe_deserialize_eval_mult_keys
func cbfhe_deserialize_eval_mult_keys(ctx C.cbfhe_handle, data *C.uint8_t, size C.size_t, format C.int32_t) C.cbfhe_status {
	return fromBuffer("DeserializeEvalMultKeys", data, size, func(b []byte) abi.Status {
		return abi.DeserializeEvalMultKeys(abi.Handle(ctx), b, abi.Format(format))
	})
}

//export cbfhe_serialize_eval_automorphism_keys
func cbfhe_serialize_eval_automorphism_keys(ctx C.cbfhe_handle, format C.int32_t, out *C.cbfhe_buffer) C.cbfhe_status {
	return toBuffer(out, func(b *[]byte) abi.Status {
		return abi.SerializeEvalAutomorphismKeys(abi.Handle(ctx), abi.Format(format), b)
	})
}

//export cbfhe_deserialize_eval_automorphism_keys
func cbfhe_deserialize_eval_automorphism_keys(ctx C.cbfhe_handle, data *C.uint8_t, size C.size_t, format C.int32_t) C.cbfhe_status {
	return fromBuffer("DeserializeEvalAutomorphismKeys", data, size, func(b []byte) abi.Status {
		return abi.DeserializeEvalAutomorphismKeys(abi.Handle(ctx), b, abi.Format(format))
	})
}
