package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/metrics"
)

var (
	selftestFile    string
	selftestMetrics bool
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run an encrypt, evaluate, serialize, decrypt round through the C-facing API",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(selftestFile)
		if err != nil {
			return err
		}
		reg := metrics.NewRegistry()
		abi.SetMetrics(reg)
		defer abi.SetMetrics(nil)

		w := cmd.OutOrStdout()
		if err := runSelftest(w, p); err != nil {
			return err
		}
		if selftestMetrics {
			return dumpMetrics(w, reg)
		}
		return nil
	},
}

func init() {
	selftestCmd.Flags().StringVar(&selftestFile, "file", "", "YAML parameter profile (defaults when empty)")
	selftestCmd.Flags().BoolVar(&selftestMetrics, "metrics", false, "print boundary metrics afterwards")
}

type selftest struct {
	w               io.Writer
	ctx, kp, pk, sk abi.Handle
	owned           []abi.Handle
}

var errMismatch = errors.New("decrypted values differ")

func (s *selftest) check(step string, st abi.Status) error {
	if st != abi.StatusOK {
		return fmt.Errorf("%s: %s: %s", step, st, abi.LastError())
	}
	fmt.Fprintf(s.w, "ok   %s\n", step)
	return nil
}

func (s *selftest) expect(step string, ct abi.Handle, want []int64) error {
	var pt abi.Handle
	if err := s.check(step+": decrypt", abi.Decrypt(s.ctx, s.sk, ct, &pt)); err != nil {
		return err
	}
	defer abi.PlaintextDestroy(pt)
	got := make([]int64, len(want))
	var n int
	if err := s.check(step+": read values", abi.PlaintextGetValues(pt, got, &n)); err != nil {
		return err
	}
	if !slices.Equal(got[:n], want) {
		return fmt.Errorf("%s: %w: got %v, want %v", step, errMismatch, got[:n], want)
	}
	return nil
}

func (s *selftest) ciphertext(h abi.Handle) abi.Handle {
	s.owned = append(s.owned, h)
	return h
}

func (s *selftest) close() {
	for _, h := range s.owned {
		abi.CiphertextDestroy(h)
	}
	abi.PublicKeyDestroy(s.pk)
	abi.PrivateKeyDestroy(s.sk)
	abi.KeyPairDestroy(s.kp)
	abi.CryptoContextDestroy(s.ctx)
}

// runSelftest drives one session through the flat boundary. Diagnostics are
// per thread, so the goroutine stays on one.
func runSelftest(w io.Writer, p fhe.Params) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s := &selftest{w: w}
	defer s.close()

	if err := s.check("create context", abi.CryptoContextCreateBGV(&p, &s.ctx)); err != nil {
		return err
	}
	for _, f := range []struct {
		name   string
		enable func(abi.Handle) abi.Status
	}{
		{"enable PKE", abi.EnablePKE},
		{"enable key switching", abi.EnableKeySwitch},
		{"enable leveled SHE", abi.EnableLeveledSHE},
	} {
		if err := s.check(f.name, f.enable(s.ctx)); err != nil {
			return err
		}
	}
	if err := s.check("keygen", abi.KeyGen(s.ctx, &s.kp)); err != nil {
		return err
	}
	if err := s.check("public key view", abi.KeyPairGetPublicKey(s.kp, &s.pk)); err != nil {
		return err
	}
	if err := s.check("private key view", abi.KeyPairGetPrivateKey(s.kp, &s.sk)); err != nil {
		return err
	}
	if err := s.check("relinearization key", abi.EvalMultKeysGen(s.ctx, s.sk)); err != nil {
		return err
	}
	if err := s.check("rotation keys", abi.EvalRotateKeysGen(s.ctx, s.sk, []int32{1})); err != nil {
		return err
	}

	var pt, ct abi.Handle
	if err := s.check("encode", abi.MakePackedPlaintext(s.ctx, []int64{1, 2, 3, 4}, &pt)); err != nil {
		return err
	}
	defer abi.PlaintextDestroy(pt)
	if err := s.check("encrypt", abi.Encrypt(s.ctx, s.pk, pt, &ct)); err != nil {
		return err
	}
	s.ciphertext(ct)

	var sum, prod, rot abi.Handle
	if err := s.check("add", abi.EvalAdd(s.ctx, ct, ct, &sum)); err != nil {
		return err
	}
	if err := s.expect("add", s.ciphertext(sum), []int64{2, 4, 6, 8}); err != nil {
		return err
	}
	if err := s.check("mult", abi.EvalMult(s.ctx, ct, ct, &prod)); err != nil {
		return err
	}
	if err := s.expect("mult", s.ciphertext(prod), []int64{1, 4, 9, 16}); err != nil {
		return err
	}
	if err := s.check("rotate", abi.EvalRotate(s.ctx, ct, 1, &rot)); err != nil {
		return err
	}
	if err := s.expect("rotate", s.ciphertext(rot), []int64{2, 3, 4, 0}); err != nil {
		return err
	}

	for _, f := range []abi.Format{abi.FormatBinary, abi.FormatJSON} {
		var data []byte
		var back abi.Handle
		step := fmt.Sprintf("serialize %s", f)
		if err := s.check(step, abi.SerializeCiphertext(prod, f, &data)); err != nil {
			return err
		}
		st := abi.DeserializeCiphertext(s.ctx, data, f, &back)
		abi.SerializedDataFree(data)
		if err := s.check(fmt.Sprintf("deserialize %s", f), st); err != nil {
			return err
		}
		if err := s.expect(step, s.ciphertext(back), []int64{1, 4, 9, 16}); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "selftest passed")
	return nil
}

func dumpMetrics(w io.Writer, reg *metrics.Registry) error {
	families, err := reg.Gatherer().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
