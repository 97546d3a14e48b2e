package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/metrics"
)

func TestSelftest(t *testing.T) {
	reg := metrics.NewRegistry()
	abi.SetMetrics(reg)
	t.Cleanup(func() { abi.SetMetrics(nil) })

	var out bytes.Buffer
	p := fhe.Params{MultiplicativeDepth: 2, PlaintextModulus: 65537, RingDim: 4096}
	require.NoError(t, runSelftest(&out, p))
	require.Contains(t, out.String(), "selftest passed")

	out.Reset()
	require.NoError(t, dumpMetrics(&out, reg))
	require.Contains(t, out.String(), `cbfhe_calls_total{op="Encrypt",status="ok"} 1`)
}

func TestSelftestMetrics(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"selftest", "--metrics", "--log-format", "json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), "cbfhe_calls_total")
	require.Contains(t, out.String(), `op="EvalMult"`)
}

func TestDescribeParams(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, describeParams(&out, fhe.DefaultParams()))

	var got resolved
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Equal(t, uint32(8192), got.Params.RingDim)
	require.Equal(t, 16384, got.CyclotomicOrder)
	require.Equal(t, 2, got.MaxLevel)
	require.Len(t, got.ContextID, 64)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("json", "info")
	require.NoError(t, err)
	_, err = newLogger("xml", "info")
	require.Error(t, err)
	_, err = newLogger("text", "loud")
	require.Error(t, err)
}
