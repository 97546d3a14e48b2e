package backend

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// binaryCodec frames entities as
//
//	"CBFH" | version u8 | kind u8 | fields...
//
// with little-endian integers and u32 length prefixes in front of strings and
// engine blobs.
type binaryCodec struct{}

var binaryMagic = [4]byte{'C', 'B', 'F', 'H'}

var errShortBuffer = errors.New("truncated payload")

type binWriter struct {
	buf []byte
}

func newBinWriter(k Kind) *binWriter {
	w := &binWriter{buf: make([]byte, 0, 256)}
	w.buf = append(w.buf, binaryMagic[:]...)
	w.buf = append(w.buf, wireVersion, byte(k))
	return w
}

func (w *binWriter) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *binWriter) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *binWriter) u64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *binWriter) id(v ID)      { w.buf = append(w.buf, v[:]...) }

func (w *binWriter) blob(b []byte) {
	w.u32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *binWriter) str(s string) { w.blob([]byte(s)) }

// bytes returns the payload trimmed to its exact length.
func (w *binWriter) bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

type binReader struct {
	buf []byte
	err error
}

func newBinReader(data []byte, k Kind) (*binReader, error) {
	if len(data) < len(binaryMagic)+2 {
		return nil, serErr(k.String(), errShortBuffer)
	}
	if [4]byte(data[:4]) != binaryMagic {
		return nil, serErr(k.String(), errors.New("not a binary payload"))
	}
	if data[4] != wireVersion {
		return nil, serErr(k.String(), fmt.Errorf("unsupported version %d", data[4]))
	}
	if got := Kind(data[5]); got != k {
		return nil, serErr(k.String(), fmt.Errorf("payload holds a %s", got))
	}
	return &binReader{buf: data[6:]}, nil
}

func (r *binReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf) {
		r.err = errShortBuffer
		return nil
	}
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out
}

func (r *binReader) u8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *binReader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *binReader) u64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *binReader) id() (v ID) {
	if b := r.take(len(v)); b != nil {
		copy(v[:], b)
	}
	return v
}

func (r *binReader) blob() []byte {
	n := r.u32()
	return r.take(int(n))
}

func (r *binReader) str() string { return string(r.blob()) }

// done reports the first read error, or trailing bytes.
func (r *binReader) done(k Kind) error {
	if r.err != nil {
		return serErr(k.String(), r.err)
	}
	if len(r.buf) != 0 {
		return serErr(k.String(), fmt.Errorf("%d trailing bytes", len(r.buf)))
	}
	return nil
}

func (binaryCodec) encodeContext(c *Context, st contextState) ([]byte, error) {
	raw, err := c.params.MarshalBinary()
	if err != nil {
		return nil, serErr("context", err)
	}
	w := newBinWriter(KindContext)
	w.blob(raw)
	s := st.Spec
	for _, v := range []uint32{s.MultiplicativeDepth, s.SecurityLevel, s.RingDim, s.BatchSize, s.MaxRelinSkDeg, s.FirstModSize, s.ScalingModSize, s.NumLargeDigits} {
		w.u32(v)
	}
	w.u64(s.PlaintextModulus)
	w.u8(uint8(st.Features))
	return w.bytes(), nil
}

func (binaryCodec) decodeContext(data []byte) (*Context, error) {
	r, err := newBinReader(data, KindContext)
	if err != nil {
		return nil, err
	}
	raw := r.blob()
	var s ParamSpec
	for _, p := range []*uint32{&s.MultiplicativeDepth, &s.SecurityLevel, &s.RingDim, &s.BatchSize, &s.MaxRelinSkDeg, &s.FirstModSize, &s.ScalingModSize, &s.NumLargeDigits} {
		*p = r.u32()
	}
	s.PlaintextModulus = r.u64()
	features := Feature(r.u8())
	if err := r.done(KindContext); err != nil {
		return nil, err
	}
	return restoreContext(raw, nil, s, features)
}

// restoreContext rebuilds a context from engine parameters given either as a
// binary or a JSON blob.
func restoreContext(rawBinary, rawJSON []byte, s ParamSpec, features Feature) (*Context, error) {
	var params bgv.Parameters
	var err error
	if rawJSON != nil {
		err = params.UnmarshalJSON(rawJSON)
	} else {
		err = params.UnmarshalBinary(rawBinary)
	}
	if err != nil {
		return nil, serErr("context parameters", err)
	}
	if features&^featureAll != 0 {
		return nil, serErr("context", fmt.Errorf("unknown feature bits %s", features))
	}
	if params.PlaintextModulus() != s.PlaintextModulus || params.N() != int(s.RingDim) {
		return nil, serErr("context", errors.New("parameter summary does not match engine parameters"))
	}
	if _, err := checkBatchSize(s.BatchSize, params.MaxSlots()); err != nil {
		return nil, serErr("context", err)
	}
	return newContext(params, s, features)
}

func (binaryCodec) encodePublicKey(pk *PublicKey) ([]byte, error) {
	raw, err := pk.key.MarshalBinary()
	if err != nil {
		return nil, serErr("public key", err)
	}
	w := newBinWriter(KindPublicKey)
	w.str(pk.tag)
	w.id(pk.ctxID)
	w.blob(raw)
	return w.bytes(), nil
}

func (binaryCodec) decodePublicKey(data []byte) (*PublicKey, error) {
	r, err := newBinReader(data, KindPublicKey)
	if err != nil {
		return nil, err
	}
	tag, id, raw := r.str(), r.id(), r.blob()
	if err := r.done(KindPublicKey); err != nil {
		return nil, err
	}
	key := new(rlwe.PublicKey)
	if err := key.UnmarshalBinary(raw); err != nil {
		return nil, serErr("public key", err)
	}
	return &PublicKey{key: key, tag: tag, ctxID: id}, nil
}

func (binaryCodec) encodeSecretKey(sk *SecretKey) ([]byte, error) {
	raw, err := sk.key.MarshalBinary()
	if err != nil {
		return nil, serErr("private key", err)
	}
	w := newBinWriter(KindPrivateKey)
	w.str(sk.tag)
	w.id(sk.ctxID)
	w.blob(raw)
	clear(raw)
	return w.bytes(), nil
}

func (binaryCodec) decodeSecretKey(data []byte) (*SecretKey, error) {
	r, err := newBinReader(data, KindPrivateKey)
	if err != nil {
		return nil, err
	}
	tag, id, raw := r.str(), r.id(), r.blob()
	if err := r.done(KindPrivateKey); err != nil {
		return nil, err
	}
	key := new(rlwe.SecretKey)
	if err := key.UnmarshalBinary(raw); err != nil {
		return nil, serErr("private key", err)
	}
	return &SecretKey{key: key, tag: tag, ctxID: id}, nil
}

func (binaryCodec) encodePlaintext(p *Plaintext) ([]byte, error) {
	w := newBinWriter(KindPlaintext)
	w.id(p.ctxID)
	w.u8(uint8(p.encoding))
	w.u32(uint32(p.length))
	w.u32(uint32(len(p.values)))
	for _, v := range p.values {
		w.u64(uint64(v))
	}
	return w.bytes(), nil
}

func (binaryCodec) decodePlaintext(c *Context, data []byte) (*Plaintext, error) {
	r, err := newBinReader(data, KindPlaintext)
	if err != nil {
		return nil, err
	}
	id := r.id()
	enc := Encoding(r.u8())
	length := int(r.u32())
	n := int(r.u32())
	if r.err == nil && n > len(r.buf)/8 {
		return nil, serErr("plaintext", errShortBuffer)
	}
	values := make([]int64, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		values = append(values, int64(r.u64()))
	}
	if err := r.done(KindPlaintext); err != nil {
		return nil, err
	}
	return c.restorePlaintext(id, enc, length, values)
}

// restorePlaintext validates decoded plaintext fields against c.
func (c *Context) restorePlaintext(id ID, enc Encoding, length int, values []int64) (*Plaintext, error) {
	if err := c.checkPayloadOwner(id, KindPlaintext); err != nil {
		return nil, err
	}
	if enc != EncodingPacked && enc != EncodingCoef {
		return nil, serErr("plaintext", fmt.Errorf("unknown encoding %d", enc))
	}
	capacity := c.capacity(enc)
	if len(values) > capacity || length > capacity {
		return nil, serErr("plaintext", fmt.Errorf("%d values with length %d exceed capacity %d", len(values), length, capacity))
	}
	return &Plaintext{values: values, length: length, capacity: capacity, encoding: enc, ctxID: c.id}, nil
}

func (binaryCodec) encodeCiphertext(ct *Ciphertext) ([]byte, error) {
	raw, err := ct.ct.MarshalBinary()
	if err != nil {
		return nil, serErr("ciphertext", err)
	}
	w := newBinWriter(KindCiphertext)
	w.str(ct.tag)
	w.id(ct.ctxID)
	w.u32(uint32(ct.length))
	w.blob(raw)
	return w.bytes(), nil
}

func (binaryCodec) decodeCiphertext(c *Context, data []byte) (*Ciphertext, error) {
	r, err := newBinReader(data, KindCiphertext)
	if err != nil {
		return nil, err
	}
	tag, id, length, raw := r.str(), r.id(), int(r.u32()), r.blob()
	if err := r.done(KindCiphertext); err != nil {
		return nil, err
	}
	if err := c.checkPayloadOwner(id, KindCiphertext); err != nil {
		return nil, err
	}
	ct := new(rlwe.Ciphertext)
	if err := ct.UnmarshalBinary(raw); err != nil {
		return nil, serErr("ciphertext", err)
	}
	if err := c.adoptCiphertext(ct); err != nil {
		return nil, err
	}
	return &Ciphertext{ct: ct, tag: tag, ctxID: c.id, length: length}, nil
}

func (binaryCodec) encodeMultKeys(id ID, keys []multKeyEntry) ([]byte, error) {
	w := newBinWriter(KindEvalMultKeys)
	w.id(id)
	w.u32(uint32(len(keys)))
	for _, e := range keys {
		raw, err := e.Key.MarshalBinary()
		if err != nil {
			return nil, serErr("eval mult key", err)
		}
		w.str(e.Tag)
		w.blob(raw)
	}
	return w.bytes(), nil
}

func (binaryCodec) decodeMultKeys(c *Context, data []byte) ([]multKeyEntry, error) {
	r, err := newBinReader(data, KindEvalMultKeys)
	if err != nil {
		return nil, err
	}
	id := r.id()
	n := int(r.u32())
	var out []multKeyEntry
	for i := 0; i < n && r.err == nil; i++ {
		tag, raw := r.str(), r.blob()
		if r.err != nil {
			break
		}
		key := new(rlwe.RelinearizationKey)
		if err := key.UnmarshalBinary(raw); err != nil {
			return nil, serErr("eval mult key", err)
		}
		out = append(out, multKeyEntry{Tag: tag, Key: key})
	}
	if err := r.done(KindEvalMultKeys); err != nil {
		return nil, err
	}
	if err := c.checkPayloadOwner(id, KindEvalMultKeys); err != nil {
		return nil, err
	}
	return out, nil
}

func (binaryCodec) encodeRotKeys(id ID, keys []rotKeyEntry) ([]byte, error) {
	w := newBinWriter(KindEvalAutomorphismKeys)
	w.id(id)
	w.u32(uint32(len(keys)))
	for _, e := range keys {
		raw, err := e.Key.MarshalBinary()
		if err != nil {
			return nil, serErr("eval automorphism key", err)
		}
		w.str(e.Tag)
		w.u64(e.GalEl)
		w.blob(raw)
	}
	return w.bytes(), nil
}

func (binaryCodec) decodeRotKeys(c *Context, data []byte) ([]rotKeyEntry, error) {
	r, err := newBinReader(data, KindEvalAutomorphismKeys)
	if err != nil {
		return nil, err
	}
	id := r.id()
	n := int(r.u32())
	var out []rotKeyEntry
	for i := 0; i < n && r.err == nil; i++ {
		tag, galEl, raw := r.str(), r.u64(), r.blob()
		if r.err != nil {
			break
		}
		key := new(rlwe.GaloisKey)
		if err := key.UnmarshalBinary(raw); err != nil {
			return nil, serErr("eval automorphism key", err)
		}
		e := rotKeyEntry{Tag: tag, GalEl: galEl, Key: key}
		if err := e.check(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := r.done(KindEvalAutomorphismKeys); err != nil {
		return nil, err
	}
	if err := c.checkPayloadOwner(id, KindEvalAutomorphismKeys); err != nil {
		return nil, err
	}
	return out, nil
}
