package backend

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
)

// Format selects the wire encoding. A buffer must be read back with the
// format it was written in.
type Format uint8

const (
	FormatBinary Format = 0
	FormatJSON   Format = 1
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Kind tags the entity carried by a serialized buffer.
type Kind uint8

const (
	KindContext Kind = iota + 1
	KindPublicKey
	KindPrivateKey
	KindPlaintext
	KindCiphertext
	KindEvalMultKeys
	KindEvalAutomorphismKeys
)

var kindNames = map[Kind]string{
	KindContext:              "context",
	KindPublicKey:            "public_key",
	KindPrivateKey:           "private_key",
	KindPlaintext:            "plaintext",
	KindCiphertext:           "ciphertext",
	KindEvalMultKeys:         "eval_mult_keys",
	KindEvalAutomorphismKeys: "eval_automorphism_keys",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

const wireVersion = 1

// contextState is what a serialized context carries besides the engine
// parameters.
type contextState struct {
	Spec     ParamSpec
	Features Feature
}

type multKeyEntry struct {
	Tag string
	Key *rlwe.RelinearizationKey
}

type rotKeyEntry struct {
	Tag   string
	GalEl uint64
	Key   *rlwe.GaloisKey
}

// check rejects an entry filed under a Galois element its key was not
// generated for.
func (e rotKeyEntry) check() error {
	if e.Key.GaloisElement != e.GalEl {
		return fmt.Errorf("%w: eval automorphism key filed under Galois element %d was generated for %d",
			ErrSerialization, e.GalEl, e.Key.GaloisElement)
	}
	return nil
}

// codec is one wire format. The two implementations share nothing but this
// interface.
type codec interface {
	encodeContext(c *Context, st contextState) ([]byte, error)
	decodeContext(data []byte) (*Context, error)

	encodePublicKey(pk *PublicKey) ([]byte, error)
	decodePublicKey(data []byte) (*PublicKey, error)

	encodeSecretKey(sk *SecretKey) ([]byte, error)
	decodeSecretKey(data []byte) (*SecretKey, error)

	encodePlaintext(p *Plaintext) ([]byte, error)
	decodePlaintext(c *Context, data []byte) (*Plaintext, error)

	encodeCiphertext(ct *Ciphertext) ([]byte, error)
	decodeCiphertext(c *Context, data []byte) (*Ciphertext, error)

	encodeMultKeys(id ID, keys []multKeyEntry) ([]byte, error)
	decodeMultKeys(c *Context, data []byte) ([]multKeyEntry, error)

	encodeRotKeys(id ID, keys []rotKeyEntry) ([]byte, error)
	decodeRotKeys(c *Context, data []byte) ([]rotKeyEntry, error)
}

func codecFor(f Format) (codec, error) {
	switch f {
	case FormatBinary:
		return binaryCodec{}, nil
	case FormatJSON:
		return jsonCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown serialization format %d", ErrInvalidParam, uint8(f))
	}
}

func serErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSerialization, what, err)
}

// SerializeContext encodes the parameters and enabled features of c.
// Evaluation keys travel separately through SerializeEvalMultKeys and
// SerializeEvalAutomorphismKeys.
func SerializeContext(c *Context, f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	st := contextState{Spec: c.spec, Features: c.features}
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: context", ErrReleased)
	}
	return cd.encodeContext(c, st)
}

func DeserializeContext(data []byte, f Format) (*Context, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.decodeContext(data)
}

func SerializePublicKey(pk *PublicKey, f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	if err := pk.live(); err != nil {
		return nil, err
	}
	return cd.encodePublicKey(pk)
}

func DeserializePublicKey(data []byte, f Format) (*PublicKey, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.decodePublicKey(data)
}

func SerializeSecretKey(sk *SecretKey, f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	if err := sk.live(); err != nil {
		return nil, err
	}
	return cd.encodeSecretKey(sk)
}

func DeserializeSecretKey(data []byte, f Format) (*SecretKey, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.decodeSecretKey(data)
}

func SerializePlaintext(p *Plaintext, f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.encodePlaintext(p)
}

// DeserializePlaintext decodes a plaintext written under a context with the
// same parameters as c.
func (c *Context) DeserializePlaintext(data []byte, f Format) (*Plaintext, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.decodePlaintext(c, data)
}

func SerializeCiphertext(ct *Ciphertext, f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.encodeCiphertext(ct)
}

// DeserializeCiphertext decodes a ciphertext against c; the payload must
// have been produced under the same parameters.
func (c *Context) DeserializeCiphertext(data []byte, f Format) (*Ciphertext, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	return cd.decodeCiphertext(c, data)
}

// SerializeEvalMultKeys encodes every relinearization key held by c.
func (c *Context) SerializeEvalMultKeys(f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	if err := c.lock(0); err != nil {
		return nil, err
	}
	entries := make([]multKeyEntry, 0, len(c.multKeys))
	for _, tag := range slices.Sorted(maps.Keys(c.multKeys)) {
		entries = append(entries, multKeyEntry{Tag: tag, Key: c.multKeys[tag]})
	}
	c.mu.Unlock()
	return cd.encodeMultKeys(c.id, entries)
}

// DeserializeEvalMultKeys installs the decoded keys into c and returns how
// many were installed.
func (c *Context) DeserializeEvalMultKeys(data []byte, f Format) (int, error) {
	cd, err := codecFor(f)
	if err != nil {
		return 0, err
	}
	entries, err := cd.decodeMultKeys(c, data)
	if err != nil {
		return 0, err
	}
	if err := c.lock(0); err != nil {
		return 0, err
	}
	defer c.mu.Unlock()
	for _, e := range entries {
		c.multKeys[e.Tag] = e.Key
		c.invalidate(e.Tag)
	}
	return len(entries), nil
}

// SerializeEvalAutomorphismKeys encodes every rotation key held by c.
func (c *Context) SerializeEvalAutomorphismKeys(f Format) ([]byte, error) {
	cd, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	if err := c.lock(0); err != nil {
		return nil, err
	}
	var entries []rotKeyEntry
	for _, tag := range slices.Sorted(maps.Keys(c.rotKeys)) {
		store := c.rotKeys[tag]
		for _, galEl := range slices.Sorted(maps.Keys(store)) {
			entries = append(entries, rotKeyEntry{Tag: tag, GalEl: galEl, Key: store[galEl]})
		}
	}
	c.mu.Unlock()
	return cd.encodeRotKeys(c.id, entries)
}

// DeserializeEvalAutomorphismKeys installs the decoded keys into c and
// returns how many were installed.
func (c *Context) DeserializeEvalAutomorphismKeys(data []byte, f Format) (int, error) {
	cd, err := codecFor(f)
	if err != nil {
		return 0, err
	}
	entries, err := cd.decodeRotKeys(c, data)
	if err != nil {
		return 0, err
	}
	if err := c.lock(0); err != nil {
		return 0, err
	}
	defer c.mu.Unlock()
	for _, e := range entries {
		store := c.rotKeys[e.Tag]
		if store == nil {
			store = map[uint64]*rlwe.GaloisKey{}
			c.rotKeys[e.Tag] = store
		}
		store[e.GalEl] = e.Key
		c.invalidate(e.Tag)
	}
	return len(entries), nil
}

// checkPayloadOwner rejects payloads written under other parameters.
func (c *Context) checkPayloadOwner(id ID, k Kind) error {
	if !id.Equal(c.id) {
		return fmt.Errorf("%w: %s was serialized under a different context", ErrSerialization, k)
	}
	return nil
}

// adoptCiphertext checks that a decoded engine ciphertext fits c.
func (c *Context) adoptCiphertext(ct *rlwe.Ciphertext) error {
	if ct.Degree() < 1 || ct.Degree() > 2 {
		return fmt.Errorf("%w: ciphertext degree %d", ErrSerialization, ct.Degree())
	}
	if ct.Level() > c.params.MaxLevel() {
		return fmt.Errorf("%w: ciphertext level %d above context maximum %d", ErrSerialization, ct.Level(), c.params.MaxLevel())
	}
	for _, poly := range ct.Value {
		if poly.N() != c.params.N() {
			return fmt.Errorf("%w: ciphertext ring degree %d, context has %d", ErrSerialization, poly.N(), c.params.N())
		}
	}
	if ct.MetaData == nil {
		return fmt.Errorf("%w: ciphertext metadata missing", ErrSerialization)
	}
	return nil
}
