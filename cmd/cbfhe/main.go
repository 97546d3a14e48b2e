// Command cbfhe inspects parameter profiles and smoke-tests the fhe
// library through its flat boundary.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coinbase/cb-fhe-go/internal/bindings"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/abi"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/logging"
)

var (
	logFormat string
	logLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cbfhe",
	Short:         "BGV homomorphic encryption toolkit",
	Version:       fhe.LibraryVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(logFormat, logLevel)
		if err != nil {
			return err
		}
		abi.SetLogger(logging.New(l))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "minimum log level: debug, info, warn or error")
	rootCmd.AddCommand(versionCmd, paramsCmd, selftestCmd)
}

func newLogger(format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print library and engine versions",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "cb-fhe-go: %s\n", fhe.LibraryVersion())
		fmt.Fprintf(w, "engine:    %s %s\n", fhe.EngineModule, fhe.EngineVersionString())
		if err := bindings.Check(); err != nil {
			fmt.Fprintf(w, "c abi:     unavailable (%v)\n", err)
			return
		}
		fmt.Fprintln(w, "c abi:     available")
	},
}

// loadParams reads a YAML profile, or returns the defaults when path is
// empty.
func loadParams(path string) (fhe.Params, error) {
	if path == "" {
		return fhe.DefaultParams(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fhe.Params{}, err
	}
	defer f.Close()
	return fhe.LoadParams(f)
}
