package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextGetters(t *testing.T) {
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, 4096, c.RingDim())
	require.Equal(t, 8192, c.CyclotomicOrder())
	require.Equal(t, uint64(65537), c.PlaintextModulus())
	require.Equal(t, 4096, c.Slots())
	require.Equal(t, 4096, c.BatchSize())
	require.Equal(t, 2, c.MaxLevel())
	require.Equal(t, Feature(0), c.Features())
}

func TestContextIDStable(t *testing.T) {
	a, err := NewContext(testSpec)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewContext(testSpec)
	require.NoError(t, err)
	defer b.Close()
	require.Equal(t, a.ID(), b.ID())

	other := testSpec
	other.MultiplicativeDepth = 1
	d, err := NewContext(other)
	require.NoError(t, err)
	defer d.Close()
	require.NotEqual(t, a.ID(), d.ID())
}

func TestEnable(t *testing.T) {
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Enable(FeaturePKE))
	require.NoError(t, c.Enable(FeaturePKE))
	require.True(t, c.Enabled(FeaturePKE))
	require.False(t, c.Enabled(FeaturePKE|FeatureFHE))
	require.Equal(t, "PKE", c.Features().String())

	require.ErrorIs(t, c.Enable(0), ErrInvalidParam)
	require.ErrorIs(t, c.Enable(Feature(0x80)), ErrInvalidParam)
}

func TestFeatureString(t *testing.T) {
	require.Equal(t, "none", Feature(0).String())
	require.Equal(t, "PKE|LEVELEDSHE", (FeaturePKE | FeatureLeveledSHE).String())
	require.Equal(t, "FHE|0x80", (FeatureFHE | Feature(0x80)).String())
}

func TestFeatureGating(t *testing.T) {
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.KeyGen()
	require.ErrorIs(t, err, ErrCrypto)

	require.NoError(t, c.Enable(FeaturePKE))
	sk, pk, err := c.KeyGen()
	require.NoError(t, err)

	require.ErrorIs(t, c.EvalMultKeyGen(sk), ErrCrypto)
	require.ErrorIs(t, c.EvalSumKeyGen(sk), ErrCrypto)

	p, err := c.MakePlaintext([]int64{1, 2}, EncodingPacked)
	require.NoError(t, err)
	ct, err := c.Encrypt(pk, p)
	require.NoError(t, err)

	_, err = c.Add(ct, ct)
	require.ErrorIs(t, err, ErrCrypto)

	require.NoError(t, c.Enable(FeatureLeveledSHE))
	_, err = c.Add(ct, ct)
	require.NoError(t, err)

	_, err = c.Sum(ct, 2)
	require.ErrorIs(t, err, ErrCrypto)
	require.ErrorIs(t, c.EvalBootstrapSetup(BootstrapConfig{LevelBudget: [2]uint32{1, 1}}), ErrCrypto)
}

func TestClose(t *testing.T) {
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	require.NoError(t, c.Enable(FeaturePKE))

	c.Close()
	c.Close()

	_, _, err = c.KeyGen()
	require.ErrorIs(t, err, ErrReleased)
	require.ErrorIs(t, c.Enable(FeatureFHE), ErrReleased)
	_, err = SerializeContext(c, FormatBinary)
	require.ErrorIs(t, err, ErrReleased)
}

func TestCrossContextRejected(t *testing.T) {
	f := newFixture(t)

	other := testSpec
	other.MultiplicativeDepth = 1
	c2, err := NewContext(other)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Enable(allFeatures))

	ct := f.encrypt(t, 1, 2, 3)
	_, err = c2.Add(ct, ct)
	require.ErrorIs(t, err, ErrCrypto)
	_, err = c2.Decrypt(f.sk, ct)
	require.ErrorIs(t, err, ErrCrypto)
}
