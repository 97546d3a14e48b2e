package fhe

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/logging"
)

// KeyPair owns a public key and the matching private key.
//
// PublicKey and PrivateKey return views: they share the pair's material and
// never release it. Closing the pair wipes the private key, after which any
// remaining view reports ErrClosed.
type KeyPair struct {
	sk     *backend.SecretKey
	pk     *backend.PublicKey
	closed atomic.Bool
}

// PublicKey is either owned (from DeserializePublicKey) or a view into a
// KeyPair.
type PublicKey struct {
	key    *backend.PublicKey
	owned  bool
	parent *KeyPair
	closed atomic.Bool
}

// PrivateKey is either owned (from DeserializePrivateKey) or a view into a
// KeyPair. Closing an owned private key wipes it.
type PrivateKey struct {
	key    *backend.SecretKey
	owned  bool
	parent *KeyPair
	closed atomic.Bool
}

// KeyGen draws a fresh key pair. Requires FeaturePKE.
func (c *Context) KeyGen() (kp *KeyPair, err error) {
	const op = "KeyGen"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	sk, pk, err := be.KeyGen()
	if err != nil {
		return nil, c.fail(op, err)
	}
	c.logger.Info(context.Background(), "key pair generated", "tag", sk.Tag(), logging.Redacted("private_key"))

	kp = &KeyPair{sk: sk, pk: pk}
	runtime.SetFinalizer(kp, (*KeyPair).Close)
	return kp, nil
}

// Tag identifies the key pair. Ciphertexts and evaluation keys derived from
// it carry the same tag.
func (kp *KeyPair) Tag() string { return kp.sk.Tag() }

// PublicKey returns a view of the pair's public key.
func (kp *KeyPair) PublicKey() *PublicKey {
	return &PublicKey{key: kp.pk, parent: kp}
}

// PrivateKey returns a view of the pair's private key.
func (kp *KeyPair) PrivateKey() *PrivateKey {
	return &PrivateKey{key: kp.sk, parent: kp}
}

// Close wipes the private key and retires the public key. It is safe to call
// more than once.
func (kp *KeyPair) Close() {
	if kp == nil || kp.closed.Swap(true) {
		return
	}
	kp.sk.Wipe()
	kp.pk.Release()
	runtime.SetFinalizer(kp, nil)
}

func (pk *PublicKey) Owned() bool { return pk.owned }

func (pk *PublicKey) Tag() string { return pk.key.Tag() }

// Close releases the key when it is owned; for a view it only retires the
// wrapper.
func (pk *PublicKey) Close() {
	if pk == nil || pk.closed.Swap(true) {
		return
	}
	if pk.owned {
		pk.key.Release()
		runtime.SetFinalizer(pk, nil)
	}
}

func (pk *PublicKey) material(op string) (*backend.PublicKey, error) {
	if pk == nil {
		return nil, errorf(op, ErrNullArgument, "public key is nil")
	}
	if pk.closed.Load() {
		return nil, errorf(op, ErrClosed, "public key")
	}
	return pk.key, nil
}

func (sk *PrivateKey) Owned() bool { return sk.owned }

func (sk *PrivateKey) Tag() string { return sk.key.Tag() }

// Close wipes the key when it is owned; for a view it only retires the
// wrapper.
func (sk *PrivateKey) Close() {
	if sk == nil || sk.closed.Swap(true) {
		return
	}
	if sk.owned {
		sk.key.Wipe()
		runtime.SetFinalizer(sk, nil)
	}
}

func (sk *PrivateKey) material(op string) (*backend.SecretKey, error) {
	if sk == nil {
		return nil, errorf(op, ErrNullArgument, "private key is nil")
	}
	if sk.closed.Load() {
		return nil, errorf(op, ErrClosed, "private key")
	}
	return sk.key, nil
}

func ownedPublicKey(key *backend.PublicKey) *PublicKey {
	pk := &PublicKey{key: key, owned: true}
	runtime.SetFinalizer(pk, (*PublicKey).Close)
	return pk
}

func ownedPrivateKey(key *backend.SecretKey) *PrivateKey {
	sk := &PrivateKey{key: key, owned: true}
	runtime.SetFinalizer(sk, (*PrivateKey).Close)
	return sk
}

// EvalMultKeyGen generates the relinearization key for sk. Requires
// FeatureKeySwitch.
func (c *Context) EvalMultKeyGen(sk *PrivateKey) (err error) {
	const op = "EvalMultKeyGen"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	key, err := sk.material(op)
	if err != nil {
		return err
	}
	if err := be.EvalMultKeyGen(key); err != nil {
		return c.fail(op, err)
	}
	c.logger.Debug(context.Background(), "relinearization key generated", "tag", key.Tag())
	return nil
}

// EvalRotateKeyGen generates rotation keys for each index; index 0 is
// skipped. Requires FeatureKeySwitch.
func (c *Context) EvalRotateKeyGen(sk *PrivateKey, indices []int) (err error) {
	const op = "EvalRotateKeyGen"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	key, err := sk.material(op)
	if err != nil {
		return err
	}
	if err := be.EvalRotateKeyGen(key, indices); err != nil {
		return c.fail(op, err)
	}
	c.logger.Debug(context.Background(), "rotation keys generated", "tag", key.Tag(), "indices", indices)
	return nil
}

// EvalSumKeyGen generates the rotation keys Sum and InnerProduct need.
// Requires FeatureAdvancedSHE.
func (c *Context) EvalSumKeyGen(sk *PrivateKey) (err error) {
	const op = "EvalSumKeyGen"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	key, err := sk.material(op)
	if err != nil {
		return err
	}
	if err := be.EvalSumKeyGen(key); err != nil {
		return c.fail(op, err)
	}
	c.logger.Debug(context.Background(), "sum keys generated", "tag", key.Tag())
	return nil
}
