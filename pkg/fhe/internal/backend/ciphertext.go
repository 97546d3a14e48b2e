package backend

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
)

// Ciphertext is an engine ciphertext tagged with the key it was encrypted
// under and the logical length of the plaintext it carries.
type Ciphertext struct {
	ct     *rlwe.Ciphertext
	tag    string
	ctxID  ID
	length int
}

func (ct *Ciphertext) Tag() string { return ct.tag }

func (ct *Ciphertext) Degree() int { return ct.ct.Degree() }

func (ct *Ciphertext) Length() int { return ct.length }

// Clone returns a deep copy.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{ct: ct.ct.CopyNew(), tag: ct.tag, ctxID: ct.ctxID, length: ct.length}
}

// Assign moves the value of src into ct. In-place operations that the engine
// only offers in functional form go through here.
func (ct *Ciphertext) Assign(src *Ciphertext) {
	ct.ct = src.ct
	ct.tag = src.tag
	ct.ctxID = src.ctxID
	ct.length = src.length
}

// Level reports how many moduli have been consumed: 0 for a fresh
// ciphertext, one more after each rescale.
func (c *Context) Level(ct *Ciphertext) (int, error) {
	if err := c.checkOwner(ct.ctxID, "ciphertext"); err != nil {
		return 0, err
	}
	return c.params.MaxLevel() - ct.ct.Level(), nil
}

// Encrypt encrypts p under pk.
func (c *Context) Encrypt(pk *PublicKey, p *Plaintext) (*Ciphertext, error) {
	if err := c.lock(FeaturePKE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := pk.live(); err != nil {
		return nil, err
	}
	if err := c.checkOwner(pk.ctxID, "public key"); err != nil {
		return nil, err
	}
	return c.encrypt(rlwe.NewEncryptor(c.params, pk.key), pk.tag, p)
}

// EncryptPrivate encrypts p directly under sk.
func (c *Context) EncryptPrivate(sk *SecretKey, p *Plaintext) (*Ciphertext, error) {
	if err := c.lock(FeaturePKE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return nil, err
	}
	return c.encrypt(rlwe.NewEncryptor(c.params, sk.key), sk.tag, p)
}

func (c *Context) encrypt(enc *rlwe.Encryptor, tag string, p *Plaintext) (*Ciphertext, error) {
	pt, err := c.encode(p)
	if err != nil {
		return nil, err
	}
	ct, err := enc.EncryptNew(pt)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypt: %v", ErrCrypto, err)
	}
	return &Ciphertext{ct: ct, tag: tag, ctxID: c.id, length: p.length}, nil
}

// Decrypt decrypts ct with sk. The result reports the logical length of the
// plaintext that was originally encrypted.
func (c *Context) Decrypt(sk *SecretKey, ct *Ciphertext) (*Plaintext, error) {
	if err := c.lock(FeaturePKE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return nil, err
	}
	if err := c.checkOwner(ct.ctxID, "ciphertext"); err != nil {
		return nil, err
	}
	if sk.tag != ct.tag {
		return nil, fmt.Errorf("%w: ciphertext was not encrypted under this private key", ErrCrypto)
	}

	p, err := c.decode(rlwe.NewDecryptor(c.params, sk.key).DecryptNew(ct.ct))
	if err != nil {
		return nil, err
	}
	if ct.length > 0 {
		p.SetLength(ct.length)
	}
	return p, nil
}
