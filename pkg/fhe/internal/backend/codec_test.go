package backend

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

var formats = []Format{FormatBinary, FormatJSON}

func TestContextRoundTrip(t *testing.T) {
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			c, err := NewContext(testSpec)
			require.NoError(t, err)
			defer c.Close()
			require.NoError(t, c.Enable(FeaturePKE|FeatureLeveledSHE))

			data, err := SerializeContext(c, format)
			require.NoError(t, err)

			got, err := DeserializeContext(data, format)
			require.NoError(t, err)
			defer got.Close()

			require.Equal(t, c.ID(), got.ID())
			require.Equal(t, c.Features(), got.Features())
			if diff := cmp.Diff(c.Spec(), got.Spec()); diff != "" {
				t.Fatalf("spec mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeysRoundTrip(t *testing.T) {
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			f := newFixture(t)

			pkData, err := SerializePublicKey(f.pk, format)
			require.NoError(t, err)
			skData, err := SerializeSecretKey(f.sk, format)
			require.NoError(t, err)

			pk, err := DeserializePublicKey(pkData, format)
			require.NoError(t, err)
			sk, err := DeserializeSecretKey(skData, format)
			require.NoError(t, err)
			require.Equal(t, f.pk.Tag(), pk.Tag())
			require.Equal(t, f.sk.Tag(), sk.Tag())

			p, err := f.c.MakePlaintext([]int64{11, 12}, EncodingPacked)
			require.NoError(t, err)
			ct, err := f.c.Encrypt(pk, p)
			require.NoError(t, err)
			out, err := f.c.Decrypt(sk, ct)
			require.NoError(t, err)
			require.Equal(t, []int64{11, 12}, out.Values())
		})
	}
}

func TestPlaintextRoundTrip(t *testing.T) {
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			f := newFixture(t)
			p, err := f.c.MakePlaintext([]int64{1, -2, 3}, EncodingCoef)
			require.NoError(t, err)
			p.SetLength(5)

			data, err := SerializePlaintext(p, format)
			require.NoError(t, err)
			got, err := f.c.DeserializePlaintext(data, format)
			require.NoError(t, err)

			require.Equal(t, EncodingCoef, got.Encoding())
			require.Equal(t, 5, got.Length())
			require.Equal(t, []int64{1, -2, 3, 0, 0}, got.Values())

			// A restored plaintext encodes on first use.
			ct, err := f.c.Encrypt(f.pk, got)
			require.NoError(t, err)
			require.Equal(t, []int64{1, -2, 3, 0, 0}, centeredAll(f.decrypt(t, ct), f.c.PlaintextModulus()))
		})
	}
}

func TestCiphertextRoundTrip(t *testing.T) {
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.c.EvalMultKeyGen(f.sk))
			ct := f.encrypt(t, 6, 7, 8)
			ct, err := f.c.Mult(ct, ct)
			require.NoError(t, err)

			data, err := SerializeCiphertext(ct, format)
			require.NoError(t, err)
			got, err := f.c.DeserializeCiphertext(data, format)
			require.NoError(t, err)

			require.Equal(t, ct.Tag(), got.Tag())
			require.Equal(t, 3, got.Length())
			lvl, err := f.c.Level(got)
			require.NoError(t, err)
			require.Equal(t, 1, lvl)
			require.Equal(t, []int64{36, 49, 64}, f.decrypt(t, got))
		})
	}
}

func TestEvalKeysRoundTrip(t *testing.T) {
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.c.EvalMultKeyGen(f.sk))
			require.NoError(t, f.c.EvalRotateKeyGen(f.sk, []int{1, 3}))

			multData, err := f.c.SerializeEvalMultKeys(format)
			require.NoError(t, err)
			rotData, err := f.c.SerializeEvalAutomorphismKeys(format)
			require.NoError(t, err)
			ctxData, err := SerializeContext(f.c, format)
			require.NoError(t, err)
			ctData, err := SerializeCiphertext(f.encrypt(t, 1, 2, 3, 4), format)
			require.NoError(t, err)

			// A second process: fresh context, keys attached from the payloads.
			c2, err := DeserializeContext(ctxData, format)
			require.NoError(t, err)
			defer c2.Close()

			n, err := c2.DeserializeEvalMultKeys(multData, format)
			require.NoError(t, err)
			require.Equal(t, 1, n)
			n, err = c2.DeserializeEvalAutomorphismKeys(rotData, format)
			require.NoError(t, err)
			require.Equal(t, 2, n)

			ct, err := c2.DeserializeCiphertext(ctData, format)
			require.NoError(t, err)
			sq, err := c2.Mult(ct, ct)
			require.NoError(t, err)
			rot, err := c2.Rotate(sq, 3)
			require.NoError(t, err)

			p, err := c2.Decrypt(f.sk, rot)
			require.NoError(t, err)
			require.Equal(t, int64(16), p.Values()[0])
		})
	}
}

func TestRotKeysRejectMislabelledElement(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.EvalRotateKeyGen(f.sk, []int{1, 3}))

	var entries []rotKeyEntry
	for tag, store := range f.c.rotKeys {
		for galEl, key := range store {
			entries = append(entries, rotKeyEntry{Tag: tag, GalEl: galEl, Key: key})
		}
	}
	require.Len(t, entries, 2)
	entries[0].GalEl, entries[1].GalEl = entries[1].GalEl, entries[0].GalEl

	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			cd, err := codecFor(format)
			require.NoError(t, err)
			data, err := cd.encodeRotKeys(f.c.id, entries)
			require.NoError(t, err)

			n, err := f.c.DeserializeEvalAutomorphismKeys(data, format)
			require.ErrorIs(t, err, ErrSerialization)
			require.Contains(t, err.Error(), "Galois element")
			require.Zero(t, n)
		})
	}
}

func TestEmptyEvalKeys(t *testing.T) {
	for _, format := range formats {
		f := newFixture(t)
		data, err := f.c.SerializeEvalMultKeys(format)
		require.NoError(t, err)
		n, err := f.c.DeserializeEvalMultKeys(data, format)
		require.NoError(t, err)
		require.Zero(t, n)
	}
}

func TestFormatMismatch(t *testing.T) {
	f := newFixture(t)
	bin, err := SerializeCiphertext(f.encrypt(t, 1), FormatBinary)
	require.NoError(t, err)
	js, err := SerializeCiphertext(f.encrypt(t, 1), FormatJSON)
	require.NoError(t, err)

	_, err = f.c.DeserializeCiphertext(bin, FormatJSON)
	require.ErrorIs(t, err, ErrSerialization)
	_, err = f.c.DeserializeCiphertext(js, FormatBinary)
	require.ErrorIs(t, err, ErrSerialization)

	_, err = SerializeCiphertext(f.encrypt(t, 1), Format(7))
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestKindMismatch(t *testing.T) {
	for _, format := range formats {
		f := newFixture(t)
		data, err := SerializePublicKey(f.pk, format)
		require.NoError(t, err)
		_, err = DeserializeSecretKey(data, format)
		require.ErrorIs(t, err, ErrSerialization, format.String())
	}
}

func TestForeignContextPayload(t *testing.T) {
	f := newFixture(t)
	other := testSpec
	other.MultiplicativeDepth = 1
	c2, err := NewContext(other)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Enable(allFeatures))

	for _, format := range formats {
		data, err := SerializeCiphertext(f.encrypt(t, 1), format)
		require.NoError(t, err)
		_, err = c2.DeserializeCiphertext(data, format)
		require.ErrorIs(t, err, ErrSerialization)

		require.NoError(t, f.c.EvalMultKeyGen(f.sk))
		keys, err := f.c.SerializeEvalMultKeys(format)
		require.NoError(t, err)
		_, err = c2.DeserializeEvalMultKeys(keys, format)
		require.ErrorIs(t, err, ErrSerialization)
	}
}

func TestJSONCiphertextRejectsUnreducedCoefficient(t *testing.T) {
	f := newFixture(t)
	data, err := SerializeCiphertext(f.encrypt(t, 1), FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	polys := doc["polys"].([]any)
	row := polys[0].([]any)[0].([]any)
	row[0] = float64(1 << 62)
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = f.c.DeserializeCiphertext(tampered, FormatJSON)
	require.ErrorIs(t, err, ErrSerialization)
}

func TestJSONContextRejectsUnknownFeature(t *testing.T) {
	c, err := NewContext(testSpec)
	require.NoError(t, err)
	defer c.Close()
	data, err := SerializeContext(c, FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["features"] = []string{"PKE", "TELEPORT"}
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = DeserializeContext(tampered, FormatJSON)
	require.ErrorIs(t, err, ErrSerialization)
}

// Every proper prefix of a binary payload must be rejected without panicking.
func TestBinaryTruncationProperty(t *testing.T) {
	f := newFixture(t)
	payloads := map[Kind][]byte{}
	var err error
	payloads[KindCiphertext], err = SerializeCiphertext(f.encrypt(t, 1, 2), FormatBinary)
	require.NoError(t, err)
	p, err := f.c.MakePlaintext([]int64{1, 2, 3}, EncodingPacked)
	require.NoError(t, err)
	payloads[KindPlaintext], err = SerializePlaintext(p, FormatBinary)
	require.NoError(t, err)
	payloads[KindContext], err = SerializeContext(f.c, FormatBinary)
	require.NoError(t, err)

	decode := func(k Kind, data []byte) error {
		switch k {
		case KindCiphertext:
			_, err := f.c.DeserializeCiphertext(data, FormatBinary)
			return err
		case KindPlaintext:
			_, err := f.c.DeserializePlaintext(data, FormatBinary)
			return err
		default:
			c, err := DeserializeContext(data, FormatBinary)
			if c != nil {
				c.Close()
			}
			return err
		}
	}

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)
	for k, full := range payloads {
		properties.Property(k.String()+" prefix rejected", prop.ForAll(
			func(n int) bool {
				return errors.Is(decode(k, full[:n]), ErrSerialization)
			},
			gen.IntRange(0, len(full)-1),
		))
	}
	properties.TestingRun(t)
}

func TestBinaryHeader(t *testing.T) {
	f := newFixture(t)
	data, err := SerializePublicKey(f.pk, FormatBinary)
	require.NoError(t, err)
	require.Equal(t, []byte("CBFH"), data[:4])
	require.Equal(t, byte(wireVersion), data[4])
	require.Equal(t, byte(KindPublicKey), data[5])

	bad := append([]byte(nil), data...)
	bad[4] = 2
	_, err = DeserializePublicKey(bad, FormatBinary)
	require.ErrorIs(t, err, ErrSerialization)

	_, err = DeserializePublicKey(append(data, 0), FormatBinary)
	require.ErrorIs(t, err, ErrSerialization)
}
