package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 1, 2, 3, 4)
	require.Equal(t, 4, ct.Length())
	require.Equal(t, []int64{1, 2, 3, 4}, f.decrypt(t, ct))

	lvl, err := f.c.Level(ct)
	require.NoError(t, err)
	require.Equal(t, 0, lvl)
}

func TestEncryptPrivate(t *testing.T) {
	f := newFixture(t)
	p, err := f.c.MakePlaintext([]int64{9, 8, 7}, EncodingPacked)
	require.NoError(t, err)
	ct, err := f.c.EncryptPrivate(f.sk, p)
	require.NoError(t, err)
	require.Equal(t, []int64{9, 8, 7}, f.decrypt(t, ct))
}

func TestDecryptWrongKey(t *testing.T) {
	f := newFixture(t)
	sk2, _, err := f.c.KeyGen()
	require.NoError(t, err)

	ct := f.encrypt(t, 1)
	_, err = f.c.Decrypt(sk2, ct)
	require.ErrorIs(t, err, ErrCrypto)
}

func TestAddSub(t *testing.T) {
	f := newFixture(t)
	a := f.encrypt(t, 1, 2, 3, 4)
	b := f.encrypt(t, 10, 20, 30)

	sum, err := f.c.Add(a, b)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 22, 33, 4}, f.decrypt(t, sum))

	diff, err := f.c.Sub(a, b)
	require.NoError(t, err)
	require.Equal(t, []int64{-9, -18, -27, 4}, centeredAll(f.decrypt(t, diff), f.c.PlaintextModulus()))

	require.NoError(t, f.c.AddInPlace(a, b))
	require.Equal(t, []int64{11, 22, 33, 4}, f.decrypt(t, a))
	require.NoError(t, f.c.SubInPlace(a, b))
	require.Equal(t, []int64{1, 2, 3, 4}, f.decrypt(t, a))
}

func TestPlaintextOperands(t *testing.T) {
	f := newFixture(t)
	a := f.encrypt(t, 5, 6, 7)
	p, err := f.c.MakePlaintext([]int64{1, 2, 3}, EncodingPacked)
	require.NoError(t, err)

	sum, err := f.c.AddPlaintext(a, p)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 8, 10}, f.decrypt(t, sum))

	diff, err := f.c.SubPlaintext(a, p)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 4, 4}, f.decrypt(t, diff))

	prod, err := f.c.MultPlaintext(a, p)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 12, 21}, f.decrypt(t, prod))
}

func TestMult(t *testing.T) {
	f := newFixture(t)
	a := f.encrypt(t, 1, 2, 3, 4)
	b := f.encrypt(t, 2, 3, 4, 5)

	_, err := f.c.Mult(a, b)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, f.c.EvalMultKeyGen(f.sk))
	prod, err := f.c.Mult(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, prod.Degree())
	require.Equal(t, []int64{2, 6, 12, 20}, f.decrypt(t, prod))

	lvl, err := f.c.Level(prod)
	require.NoError(t, err)
	require.Equal(t, 1, lvl)
}

func TestMultNoRelinThenRelinearize(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.EvalMultKeyGen(f.sk))
	a := f.encrypt(t, 3, 4)
	b := f.encrypt(t, 5, 6)

	raw, err := f.c.MultNoRelin(a, b)
	require.NoError(t, err)
	require.Equal(t, 2, raw.Degree())
	require.Equal(t, []int64{15, 24}, f.decrypt(t, raw))

	lin, err := f.c.Relinearize(raw)
	require.NoError(t, err)
	require.Equal(t, 1, lin.Degree())
	require.Equal(t, []int64{15, 24}, f.decrypt(t, lin))

	again, err := f.c.Relinearize(lin)
	require.NoError(t, err)
	require.Equal(t, 1, again.Degree())
}

func TestMultMany(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.EvalMultKeyGen(f.sk))

	cts := []*Ciphertext{
		f.encrypt(t, 1, 2),
		f.encrypt(t, 2, 3),
		f.encrypt(t, 3, 4),
	}
	prod, err := f.c.MultMany(cts)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 24}, f.decrypt(t, prod))

	_, err = f.c.MultMany(nil)
	require.ErrorIs(t, err, ErrInvalidParam)

	single, err := f.c.MultMany(cts[:1])
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, f.decrypt(t, single))
}

func TestMismatchedKeys(t *testing.T) {
	f := newFixture(t)
	_, pk2, err := f.c.KeyGen()
	require.NoError(t, err)

	p, err := f.c.MakePlaintext([]int64{1}, EncodingPacked)
	require.NoError(t, err)
	other, err := f.c.Encrypt(pk2, p)
	require.NoError(t, err)

	_, err = f.c.Add(f.encrypt(t, 1), other)
	require.ErrorIs(t, err, ErrCrypto)
}

func TestNegate(t *testing.T) {
	f := newFixture(t)
	neg, err := f.c.Negate(f.encrypt(t, 1, -2, 3))
	require.NoError(t, err)
	require.Equal(t, []int64{-1, 2, -3}, centeredAll(f.decrypt(t, neg), f.c.PlaintextModulus()))
}

func TestRotate(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 1, 2, 3, 4, 5)

	_, err := f.c.Rotate(ct, 1)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, f.c.EvalRotateKeyGen(f.sk, []int{0, 1, -1}))

	left, err := f.c.Rotate(ct, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 4, 5, 0}, f.decrypt(t, left))

	right, err := f.c.Rotate(ct, -1)
	require.NoError(t, err)
	p, err := f.c.Decrypt(f.sk, right)
	require.NoError(t, err)
	p.SetLength(6)
	require.Equal(t, []int64{0, 1, 2, 3, 4, 5}, p.Values())

	same, err := f.c.Rotate(ct, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3, 4, 5}, f.decrypt(t, same))
}

func TestSumAndInnerProduct(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 1, 2, 3, 4)

	_, err := f.c.Sum(ct, 4)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, f.c.EvalSumKeyGen(f.sk))
	require.NoError(t, f.c.EvalMultKeyGen(f.sk))

	sum, err := f.c.Sum(ct, 4)
	require.NoError(t, err)
	require.Equal(t, int64(10), f.decrypt(t, sum)[0])

	_, err = f.c.Sum(ct, 3)
	require.ErrorIs(t, err, ErrInvalidParam)

	ip, err := f.c.InnerProduct(ct, f.encrypt(t, 1, 1, 2, 2), 4)
	require.NoError(t, err)
	require.Equal(t, int64(1+2+6+8), f.decrypt(t, ip)[0])
}

func TestModReduce(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 7, 8)

	for want := 1; want <= f.c.MaxLevel(); want++ {
		var err error
		ct, err = f.c.ModReduce(ct)
		require.NoError(t, err)
		lvl, err := f.c.Level(ct)
		require.NoError(t, err)
		require.Equal(t, want, lvl)
	}
	require.Equal(t, []int64{7, 8}, f.decrypt(t, ct))

	_, err := f.c.ModReduce(ct)
	require.ErrorIs(t, err, ErrCrypto)
}

func TestWipedKeyRejected(t *testing.T) {
	f := newFixture(t)
	ct := f.encrypt(t, 1)
	f.sk.Wipe()
	f.sk.Wipe()
	_, err := f.c.Decrypt(f.sk, ct)
	require.ErrorIs(t, err, ErrReleased)

	f.pk.Release()
	p, err := f.c.MakePlaintext([]int64{1}, EncodingPacked)
	require.NoError(t, err)
	_, err = f.c.Encrypt(f.pk, p)
	require.ErrorIs(t, err, ErrReleased)
}

func TestEvalKeyCounts(t *testing.T) {
	f := newFixture(t)
	mult, rot := f.c.EvalKeyCounts()
	require.Zero(t, mult)
	require.Zero(t, rot)

	require.NoError(t, f.c.EvalMultKeyGen(f.sk))
	require.NoError(t, f.c.EvalRotateKeyGen(f.sk, []int{1, 2, 1}))
	mult, rot = f.c.EvalKeyCounts()
	require.Equal(t, 1, mult)
	require.Equal(t, 2, rot)
}
