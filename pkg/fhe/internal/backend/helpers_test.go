package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testSpec keeps the ring small; security 0 skips the standard bound check.
var testSpec = ParamSpec{
	MultiplicativeDepth: 2,
	PlaintextModulus:    65537,
	RingDim:             4096,
}

const allFeatures = FeaturePKE | FeatureKeySwitch | FeatureLeveledSHE | FeatureAdvancedSHE | FeatureFHE

type fixture struct {
	c  *Context
	sk *SecretKey
	pk *PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	require.NoError(t, c.Enable(allFeatures))
	t.Cleanup(c.Close)

	sk, pk, err := c.KeyGen()
	require.NoError(t, err)
	return &fixture{c: c, sk: sk, pk: pk}
}

func (f *fixture) encrypt(t *testing.T, values ...int64) *Ciphertext {
	t.Helper()
	p, err := f.c.MakePlaintext(values, EncodingPacked)
	require.NoError(t, err)
	ct, err := f.c.Encrypt(f.pk, p)
	require.NoError(t, err)
	return ct
}

func (f *fixture) decrypt(t *testing.T, ct *Ciphertext) []int64 {
	t.Helper()
	p, err := f.c.Decrypt(f.sk, ct)
	require.NoError(t, err)
	return p.Values()
}

// centered maps v into (-t/2, t/2] so negative results compare naturally.
func centered(v int64, t uint64) int64 {
	m := int64(t)
	v %= m
	if v < 0 {
		v += m
	}
	if v > m/2 {
		v -= m
	}
	return v
}

func centeredAll(vs []int64, t uint64) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = centered(v, t)
	}
	return out
}
