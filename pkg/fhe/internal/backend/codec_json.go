package backend

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// jsonCodec writes self-describing documents. Ciphertexts are written as
// explicit coefficient matrices so they can be inspected; key material is
// base64 of the engine binary form.
type jsonCodec struct{}

type jsonEnvelope struct {
	Kind    string `json:"kind"`
	Version int    `json:"version"`
}

type jsonSpec struct {
	MultiplicativeDepth uint32 `json:"multiplicative_depth"`
	PlaintextModulus    uint64 `json:"plaintext_modulus"`
	SecurityLevel       uint32 `json:"security_level"`
	RingDim             uint32 `json:"ring_dim"`
	BatchSize           uint32 `json:"batch_size"`
	MaxRelinSkDeg       uint32 `json:"max_relin_sk_deg"`
	FirstModSize        uint32 `json:"first_mod_size"`
	ScalingModSize      uint32 `json:"scaling_mod_size"`
	NumLargeDigits      uint32 `json:"num_large_digits"`
}

type jsonContext struct {
	jsonEnvelope
	Parameters json.RawMessage `json:"parameters"`
	Spec       jsonSpec        `json:"spec"`
	Features   []string        `json:"features"`
}

type jsonKey struct {
	jsonEnvelope
	Tag       string `json:"tag"`
	ContextID string `json:"context_id"`
	Key       string `json:"key"`
}

type jsonPlaintext struct {
	jsonEnvelope
	ContextID string  `json:"context_id"`
	Encoding  string  `json:"encoding"`
	Length    int     `json:"length"`
	Values    []int64 `json:"values"`
}

type jsonCiphertext struct {
	jsonEnvelope
	ContextID string          `json:"context_id"`
	Tag       string          `json:"tag"`
	Length    int             `json:"length"`
	MetaData  json.RawMessage `json:"metadata"`
	// Polys is indexed [poly][modulus][coefficient].
	Polys [][][]uint64 `json:"polys"`
}

type jsonEvalKey struct {
	Tag   string `json:"tag"`
	GalEl uint64 `json:"galois_element,omitempty"`
	Key   string `json:"key"`
}

type jsonEvalKeys struct {
	jsonEnvelope
	ContextID string        `json:"context_id"`
	Keys      []jsonEvalKey `json:"keys"`
}

func envelope(k Kind) jsonEnvelope {
	return jsonEnvelope{Kind: k.String(), Version: wireVersion}
}

// unmarshalAs decodes data into v and checks the envelope v embeds.
func unmarshalAs(data []byte, k Kind, v interface{ envelope() jsonEnvelope }) error {
	if err := json.Unmarshal(data, v); err != nil {
		return serErr(k.String(), err)
	}
	env := v.envelope()
	if env.Kind != k.String() {
		return serErr(k.String(), fmt.Errorf("document holds %q", env.Kind))
	}
	if env.Version != wireVersion {
		return serErr(k.String(), fmt.Errorf("unsupported version %d", env.Version))
	}
	return nil
}

func (e *jsonEnvelope) envelope() jsonEnvelope { return *e }

func marshal(k Kind, v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, serErr(k.String(), err)
	}
	return out, nil
}

func (jsonCodec) encodeContext(c *Context, st contextState) ([]byte, error) {
	raw, err := c.params.MarshalJSON()
	if err != nil {
		return nil, serErr("context", err)
	}
	var names []string
	for _, fn := range featureNames {
		if st.Features&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	s := st.Spec
	return marshal(KindContext, jsonContext{
		jsonEnvelope: envelope(KindContext),
		Parameters:   raw,
		Spec: jsonSpec{
			MultiplicativeDepth: s.MultiplicativeDepth,
			PlaintextModulus:    s.PlaintextModulus,
			SecurityLevel:       s.SecurityLevel,
			RingDim:             s.RingDim,
			BatchSize:           s.BatchSize,
			MaxRelinSkDeg:       s.MaxRelinSkDeg,
			FirstModSize:        s.FirstModSize,
			ScalingModSize:      s.ScalingModSize,
			NumLargeDigits:      s.NumLargeDigits,
		},
		Features: names,
	})
}

func (jsonCodec) decodeContext(data []byte) (*Context, error) {
	var doc jsonContext
	if err := unmarshalAs(data, KindContext, &doc); err != nil {
		return nil, err
	}
	if len(doc.Parameters) == 0 {
		return nil, serErr("context", fmt.Errorf("parameters missing"))
	}
	var features Feature
	for _, name := range doc.Features {
		f, ok := featureByName(name)
		if !ok {
			return nil, serErr("context", fmt.Errorf("unknown feature %q", name))
		}
		features |= f
	}
	s := ParamSpec(doc.Spec)
	return restoreContext(nil, doc.Parameters, s, features)
}

func featureByName(name string) (Feature, bool) {
	for _, fn := range featureNames {
		if fn.name == name {
			return fn.f, true
		}
	}
	return 0, false
}

type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

type binaryUnmarshaler interface {
	UnmarshalBinary([]byte) error
}

func encodeKey(k Kind, tag string, id ID, key binaryMarshaler) ([]byte, error) {
	raw, err := key.MarshalBinary()
	if err != nil {
		return nil, serErr(k.String(), err)
	}
	defer clear(raw)
	return marshal(k, jsonKey{
		jsonEnvelope: envelope(k),
		Tag:          tag,
		ContextID:    id.String(),
		Key:          base64.StdEncoding.EncodeToString(raw),
	})
}

func decodeKey(data []byte, k Kind, key binaryUnmarshaler) (string, ID, error) {
	var doc jsonKey
	if err := unmarshalAs(data, k, &doc); err != nil {
		return "", ID{}, err
	}
	id, err := parseID(doc.ContextID)
	if err != nil {
		return "", ID{}, err
	}
	if err := unmarshalB64(k, doc.Key, key); err != nil {
		return "", ID{}, err
	}
	return doc.Tag, id, nil
}

func unmarshalB64(k Kind, s string, v binaryUnmarshaler) error {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return serErr(k.String(), err)
	}
	defer clear(raw)
	if err := v.UnmarshalBinary(raw); err != nil {
		return serErr(k.String(), err)
	}
	return nil
}

func (jsonCodec) encodePublicKey(pk *PublicKey) ([]byte, error) {
	return encodeKey(KindPublicKey, pk.tag, pk.ctxID, pk.key)
}

func (jsonCodec) decodePublicKey(data []byte) (*PublicKey, error) {
	key := new(rlwe.PublicKey)
	tag, id, err := decodeKey(data, KindPublicKey, key)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: key, tag: tag, ctxID: id}, nil
}

func (jsonCodec) encodeSecretKey(sk *SecretKey) ([]byte, error) {
	return encodeKey(KindPrivateKey, sk.tag, sk.ctxID, sk.key)
}

func (jsonCodec) decodeSecretKey(data []byte) (*SecretKey, error) {
	key := new(rlwe.SecretKey)
	tag, id, err := decodeKey(data, KindPrivateKey, key)
	if err != nil {
		return nil, err
	}
	return &SecretKey{key: key, tag: tag, ctxID: id}, nil
}

func (jsonCodec) encodePlaintext(p *Plaintext) ([]byte, error) {
	return marshal(KindPlaintext, jsonPlaintext{
		jsonEnvelope: envelope(KindPlaintext),
		ContextID:    p.ctxID.String(),
		Encoding:     p.encoding.String(),
		Length:       p.length,
		Values:       p.values,
	})
}

func (jsonCodec) decodePlaintext(c *Context, data []byte) (*Plaintext, error) {
	var doc jsonPlaintext
	if err := unmarshalAs(data, KindPlaintext, &doc); err != nil {
		return nil, err
	}
	id, err := parseID(doc.ContextID)
	if err != nil {
		return nil, err
	}
	enc, err := parseEncoding(doc.Encoding)
	if err != nil {
		return nil, err
	}
	if doc.Length < 0 {
		return nil, serErr("plaintext", fmt.Errorf("negative length %d", doc.Length))
	}
	return c.restorePlaintext(id, enc, doc.Length, doc.Values)
}

func (jsonCodec) encodeCiphertext(ct *Ciphertext) ([]byte, error) {
	meta, err := ct.ct.MetaData.MarshalJSON()
	if err != nil {
		return nil, serErr("ciphertext", err)
	}
	polys := make([][][]uint64, len(ct.ct.Value))
	for i, poly := range ct.ct.Value {
		polys[i] = poly.Coeffs
	}
	return marshal(KindCiphertext, jsonCiphertext{
		jsonEnvelope: envelope(KindCiphertext),
		ContextID:    ct.ctxID.String(),
		Tag:          ct.tag,
		Length:       ct.length,
		MetaData:     meta,
		Polys:        polys,
	})
}

func (jsonCodec) decodeCiphertext(c *Context, data []byte) (*Ciphertext, error) {
	var doc jsonCiphertext
	if err := unmarshalAs(data, KindCiphertext, &doc); err != nil {
		return nil, err
	}
	id, err := parseID(doc.ContextID)
	if err != nil {
		return nil, err
	}
	if err := c.checkPayloadOwner(id, KindCiphertext); err != nil {
		return nil, err
	}

	degree := len(doc.Polys) - 1
	if degree < 1 || degree > 2 {
		return nil, serErr("ciphertext", fmt.Errorf("%d polynomials", len(doc.Polys)))
	}
	rows := len(doc.Polys[0])
	if rows < 1 || rows > c.params.MaxLevel()+1 {
		return nil, serErr("ciphertext", fmt.Errorf("%d moduli, context has %d", rows, c.params.MaxLevel()+1))
	}
	ct := bgv.NewCiphertext(c.params, degree, rows-1)
	moduli := c.params.Q()
	for i, poly := range doc.Polys {
		if len(poly) != rows {
			return nil, serErr("ciphertext", fmt.Errorf("polynomial %d has %d moduli, want %d", i, len(poly), rows))
		}
		for j, row := range poly {
			if len(row) != c.params.N() {
				return nil, serErr("ciphertext", fmt.Errorf("polynomial %d modulus %d has %d coefficients", i, j, len(row)))
			}
			for _, v := range row {
				if v >= moduli[j] {
					return nil, serErr("ciphertext", fmt.Errorf("coefficient %d not reduced mod q%d", v, j))
				}
			}
			copy(ct.Value[i].Coeffs[j], row)
		}
	}
	if err := ct.MetaData.UnmarshalJSON(doc.MetaData); err != nil {
		return nil, serErr("ciphertext metadata", err)
	}
	if err := c.adoptCiphertext(ct); err != nil {
		return nil, err
	}
	return &Ciphertext{ct: ct, tag: doc.Tag, ctxID: c.id, length: doc.Length}, nil
}

func (jsonCodec) encodeMultKeys(id ID, keys []multKeyEntry) ([]byte, error) {
	doc := jsonEvalKeys{jsonEnvelope: envelope(KindEvalMultKeys), ContextID: id.String(), Keys: []jsonEvalKey{}}
	for _, e := range keys {
		raw, err := e.Key.MarshalBinary()
		if err != nil {
			return nil, serErr("eval mult key", err)
		}
		doc.Keys = append(doc.Keys, jsonEvalKey{Tag: e.Tag, Key: base64.StdEncoding.EncodeToString(raw)})
	}
	return marshal(KindEvalMultKeys, doc)
}

func (jsonCodec) decodeMultKeys(c *Context, data []byte) ([]multKeyEntry, error) {
	doc, err := decodeEvalKeys(c, data, KindEvalMultKeys)
	if err != nil {
		return nil, err
	}
	out := make([]multKeyEntry, 0, len(doc.Keys))
	for _, e := range doc.Keys {
		key := new(rlwe.RelinearizationKey)
		if err := unmarshalB64(KindEvalMultKeys, e.Key, key); err != nil {
			return nil, err
		}
		out = append(out, multKeyEntry{Tag: e.Tag, Key: key})
	}
	return out, nil
}

func (jsonCodec) encodeRotKeys(id ID, keys []rotKeyEntry) ([]byte, error) {
	doc := jsonEvalKeys{jsonEnvelope: envelope(KindEvalAutomorphismKeys), ContextID: id.String(), Keys: []jsonEvalKey{}}
	for _, e := range keys {
		raw, err := e.Key.MarshalBinary()
		if err != nil {
			return nil, serErr("eval automorphism key", err)
		}
		doc.Keys = append(doc.Keys, jsonEvalKey{Tag: e.Tag, GalEl: e.GalEl, Key: base64.StdEncoding.EncodeToString(raw)})
	}
	return marshal(KindEvalAutomorphismKeys, doc)
}

func (jsonCodec) decodeRotKeys(c *Context, data []byte) ([]rotKeyEntry, error) {
	doc, err := decodeEvalKeys(c, data, KindEvalAutomorphismKeys)
	if err != nil {
		return nil, err
	}
	out := make([]rotKeyEntry, 0, len(doc.Keys))
	for _, e := range doc.Keys {
		key := new(rlwe.GaloisKey)
		if err := unmarshalB64(KindEvalAutomorphismKeys, e.Key, key); err != nil {
			return nil, err
		}
		entry := rotKeyEntry{Tag: e.Tag, GalEl: e.GalEl, Key: key}
		if err := entry.check(); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func decodeEvalKeys(c *Context, data []byte, k Kind) (*jsonEvalKeys, error) {
	var doc jsonEvalKeys
	if err := unmarshalAs(data, k, &doc); err != nil {
		return nil, err
	}
	id, err := parseID(doc.ContextID)
	if err != nil {
		return nil, err
	}
	if err := c.checkPayloadOwner(id, k); err != nil {
		return nil, err
	}
	return &doc, nil
}
