//go:build cgo && !windows

package bindings

import (
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
)

func ok(t *testing.T, s cStatus) {
	t.Helper()
	require.Equal(t, abi.StatusOK, abi.Status(s), lastError())
}

// lastError reads the diagnostic through the C entry point.
func lastError() string {
	buf := make([]byte, 512)
	n := cbfhe_last_error(chars(buf), cSize(len(buf)))
	return string(buf[:min(int(n), len(buf)-1)])
}

type fixture struct {
	ctx, kp, pk, sk cHandle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	p := newParams()
	ok(t, cbfhe_params_default(p))
	p.ring_dim = 4096
	p.security_level = 0

	f := &fixture{}
	ok(t, cbfhe_context_create_bgv(p, &f.ctx))
	t.Cleanup(func() { cbfhe_context_destroy(f.ctx) })
	ok(t, cbfhe_enable_pke(f.ctx))
	ok(t, cbfhe_enable_keyswitch(f.ctx))
	ok(t, cbfhe_enable_leveled_she(f.ctx))

	ok(t, cbfhe_keygen(f.ctx, &f.kp))
	t.Cleanup(func() { cbfhe_keypair_destroy(f.kp) })
	ok(t, cbfhe_keypair_get_public_key(f.kp, &f.pk))
	ok(t, cbfhe_keypair_get_private_key(f.kp, &f.sk))
	return f
}

func (f *fixture) encrypt(t *testing.T, values ...int64) cHandle {
	t.Helper()
	var pt, ct cHandle
	ok(t, cbfhe_make_packed_plaintext(f.ctx, int64s(values), cSize(len(values)), &pt))
	defer cbfhe_plaintext_destroy(pt)
	ok(t, cbfhe_encrypt(f.ctx, f.pk, pt, &ct))
	return ct
}

func (f *fixture) decrypt(t *testing.T, ct cHandle) []int64 {
	t.Helper()
	var pt cHandle
	ok(t, cbfhe_decrypt(f.ctx, f.sk, ct, &pt))
	defer cbfhe_plaintext_destroy(pt)
	var n cSize
	ok(t, cbfhe_plaintext_get_length(pt, &n))
	values := make([]int64, int(n))
	ok(t, cbfhe_plaintext_get_values(pt, int64s(values), n, &n))
	return values[:int(n)]
}

func TestAvailable(t *testing.T) {
	require.True(t, Available())
	require.NoError(t, Check())
}

func TestEndToEndThroughC(t *testing.T) {
	f := newFixture(t)

	ring := newUint32()
	ok(t, cbfhe_get_ring_dim(f.ctx, ring))
	require.EqualValues(t, 4096, *ring)

	ct := f.encrypt(t, 1, 2, 3, 4)
	defer cbfhe_ciphertext_destroy(ct)
	var sum cHandle
	ok(t, cbfhe_eval_add(f.ctx, ct, ct, &sum))
	defer cbfhe_ciphertext_destroy(sum)
	require.Equal(t, []int64{2, 4, 6, 8}, f.decrypt(t, sum))

	level := newUint32()
	ok(t, cbfhe_ciphertext_get_level(sum, level))
	require.Zero(t, *level)
}

func TestLastErrorTruncates(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var out cHandle
	require.Equal(t, abi.StatusNullPointer, abi.Status(cbfhe_keygen(0, &out)))
	const msg = "KeyGen: context is null"
	require.Equal(t, msg, lastError())

	require.EqualValues(t, len(msg), cbfhe_last_error(nil, 0))

	buf := []byte("xxxxxxxx")
	require.EqualValues(t, len(msg), cbfhe_last_error(chars(buf), 5))
	require.Equal(t, "KeyG\x00xxx", string(buf))

	buf = []byte("xx")
	require.EqualValues(t, len(msg), cbfhe_last_error(chars(buf), 1))
	require.Equal(t, "\x00x", string(buf))

	// Only the message and its terminator are written, whatever the
	// declared capacity.
	buf = []byte(strings.Repeat("y", len(msg)+4))
	require.EqualValues(t, len(msg), cbfhe_last_error(chars(buf), cSize(math.MaxUint64)))
	require.Equal(t, msg+"\x00yyy", string(buf))
}

func TestOversizedLengthsAreRejected(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	m := cCopy([]byte{1, 2, 3})
	defer m.free()
	huge := cSize(math.MaxUint64)
	vals := []int64{1, 2}
	var n cSize

	tests := []struct {
		name string
		op   string
		call func(out *cHandle) cStatus
	}{
		{"deserialize context", "DeserializeContext", func(out *cHandle) cStatus {
			return cbfhe_deserialize_context(m.bytes(), huge, 0, out)
		}},
		{"deserialize private key", "DeserializePrivateKey", func(out *cHandle) cStatus {
			return cbfhe_deserialize_private_key(m.bytes(), huge, 0, out)
		}},
		{"deserialize ciphertext", "DeserializeCiphertext", func(out *cHandle) cStatus {
			return cbfhe_deserialize_ciphertext(1, m.bytes(), huge, 0, out)
		}},
		{"deserialize automorphism keys", "DeserializeEvalAutomorphismKeys", func(*cHandle) cStatus {
			return cbfhe_deserialize_eval_automorphism_keys(1, m.bytes(), huge, 0)
		}},
		{"packed values", "MakePackedPlaintext", func(out *cHandle) cStatus {
			return cbfhe_make_packed_plaintext(1, int64s(vals), cSize(math.MaxUint64/4), out)
		}},
		{"rotation indices", "EvalRotateKeysGen", func(*cHandle) cStatus {
			return cbfhe_eval_rotate_keys_gen(1, 2, int32s([]int32{1}), huge)
		}},
		{"ciphertext list", "EvalMultMany", func(out *cHandle) cStatus {
			return cbfhe_eval_mult_many(1, handles([]abi.Handle{1}), huge, out)
		}},
		{"values capacity", "PlaintextGetValues", func(*cHandle) cStatus {
			return cbfhe_plaintext_get_values(1, int64s(vals), huge, &n)
		}},
		{"plaintext length", "PlaintextSetLength", func(*cHandle) cStatus {
			return cbfhe_plaintext_set_length(1, huge)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			var out cHandle
			var got cStatus
			require.NotPanics(t, func() { got = tt.call(&out) })
			require.Equal(t, abi.StatusInvalidParam, abi.Status(got))
			require.Zero(t, out)
			require.True(t, strings.HasPrefix(lastError(), tt.op+": length "), lastError())
			require.Contains(t, lastError(), "out of range")
		})
	}
}

func TestSerializeBufferRoundTrip(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 5, 6, 7)
	defer cbfhe_ciphertext_destroy(ct)

	for _, format := range []abi.Format{abi.FormatBinary, abi.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			buf := newBuffer()
			ok(t, cbfhe_serialize_ciphertext(ct, cformat(format), buf))
			require.NotNil(t, buf.data)
			got := bufferBytes(buf)
			require.Len(t, got, int(buf.size))

			var want []byte
			require.Equal(t, abi.StatusOK, abi.SerializeCiphertext(abi.Handle(ct), format, &want))
			require.Equal(t, want, got)
			abi.SerializedDataFree(want)

			m := cCopy(got)
			defer m.free()
			var back cHandle
			ok(t, cbfhe_deserialize_ciphertext(f.ctx, m.bytes(), m.size(), cformat(format), &back))
			defer cbfhe_ciphertext_destroy(back)
			require.Equal(t, []int64{5, 6, 7}, f.decrypt(t, back))

			cbfhe_serialized_data_free(buf)
			require.Nil(t, buf.data)
			require.Zero(t, buf.size)
			cbfhe_serialized_data_free(buf)
			cbfhe_serialized_data_free(nil)
		})
	}
}

func TestPrivateKeyBufferRoundTrip(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 11, 12)
	defer cbfhe_ciphertext_destroy(ct)

	buf := newBuffer()
	ok(t, cbfhe_serialize_private_key(f.sk, cformat(abi.FormatBinary), buf))
	m := cCopy(bufferBytes(buf))
	defer m.free()
	cbfhe_serialized_data_free(buf)

	var sk, pt cHandle
	ok(t, cbfhe_deserialize_private_key(m.bytes(), m.size(), cformat(abi.FormatBinary), &sk))
	defer cbfhe_private_key_destroy(sk)
	ok(t, cbfhe_decrypt(f.ctx, sk, ct, &pt))
	defer cbfhe_plaintext_destroy(pt)

	values := make([]int64, 2)
	var n cSize
	ok(t, cbfhe_plaintext_get_values(pt, int64s(values), cSize(len(values)), &n))
	require.EqualValues(t, 2, n)
	require.Equal(t, []int64{11, 12}, values)
}

func TestInputArraysAreCopied(t *testing.T) {
	f := newFixture(t)

	values := []int64{3, 1, 4}
	var pt cHandle
	ok(t, cbfhe_make_packed_plaintext(f.ctx, int64s(values), cSize(len(values)), &pt))
	defer cbfhe_plaintext_destroy(pt)
	values[0] = 99

	got := make([]int64, 8)
	var n cSize
	ok(t, cbfhe_plaintext_get_values(pt, int64s(got), cSize(len(got)), &n))
	require.Equal(t, []int64{3, 1, 4}, got[:int(n)])

	// A short destination receives a prefix.
	short := make([]int64, 2)
	ok(t, cbfhe_plaintext_get_values(pt, int64s(short), cSize(len(short)), &n))
	require.EqualValues(t, 2, n)
	require.Equal(t, []int64{3, 1}, short)
}

func TestNullOutPointers(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 1)
	defer cbfhe_ciphertext_destroy(ct)
	var pt cHandle
	ok(t, cbfhe_make_packed_plaintext(f.ctx, int64s([]int64{1}), 1, &pt))
	defer cbfhe_plaintext_destroy(pt)

	var out cHandle
	var n cSize
	vals := make([]int64, 4)
	p := newParams()
	ok(t, cbfhe_params_default(p))

	tests := []struct {
		name string
		what string
		call func() cStatus
	}{
		{"create params", "params", func() cStatus { return cbfhe_context_create_bgv(nil, &out) }},
		{"create out", "out", func() cStatus { return cbfhe_context_create_bgv(p, nil) }},
		{"getter", "out", func() cStatus { return cbfhe_get_ring_dim(f.ctx, nil) }},
		{"keygen", "out", func() cStatus { return cbfhe_keygen(f.ctx, nil) }},
		{"view", "out", func() cStatus { return cbfhe_keypair_get_public_key(f.kp, nil) }},
		{"rotation indices", "indices", func() cStatus { return cbfhe_eval_rotate_keys_gen(f.ctx, f.sk, nil, 1) }},
		{"packed values", "values", func() cStatus { return cbfhe_make_packed_plaintext(f.ctx, nil, 4, &out) }},
		{"packed out", "out", func() cStatus { return cbfhe_make_packed_plaintext(f.ctx, int64s(vals), 4, nil) }},
		{"values out", "out", func() cStatus { return cbfhe_plaintext_get_values(pt, nil, 0, &n) }},
		{"values count", "n", func() cStatus { return cbfhe_plaintext_get_values(pt, int64s(vals), 4, nil) }},
		{"length", "out", func() cStatus { return cbfhe_plaintext_get_length(pt, nil) }},
		{"encrypt", "out", func() cStatus { return cbfhe_encrypt(f.ctx, f.pk, pt, nil) }},
		{"binary op", "out", func() cStatus { return cbfhe_eval_add(f.ctx, ct, ct, nil) }},
		{"ciphertext list", "ciphertext list", func() cStatus { return cbfhe_eval_mult_many(f.ctx, nil, 2, &out) }},
		{"level", "out", func() cStatus { return cbfhe_ciphertext_get_level(ct, nil) }},
		{"bootstrap budget", "level budget", func() cStatus { return cbfhe_eval_bootstrap_setup(f.ctx, nil, nil, 0, 0) }},
		{"serialize", "out", func() cStatus { return cbfhe_serialize_ciphertext(ct, 0, nil) }},
		{"deserialize data", "data", func() cStatus { return cbfhe_deserialize_ciphertext(f.ctx, nil, 4, 0, &out) }},
		{"deserialize keys", "data", func() cStatus { return cbfhe_deserialize_eval_mult_keys(f.ctx, nil, 0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			out = 0
			require.Equal(t, abi.StatusNullPointer, abi.Status(tt.call()))
			require.Zero(t, out)
			require.True(t, strings.HasSuffix(lastError(), ": "+tt.what+" is null"), lastError())
		})
	}

	require.Equal(t, abi.StatusNullPointer, abi.Status(cbfhe_params_default(nil)))
}
