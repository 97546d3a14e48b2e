package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

var paramsFile string

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Resolve a parameter profile and print the engine's choices",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(paramsFile)
		if err != nil {
			return err
		}
		return describeParams(cmd.OutOrStdout(), p)
	},
}

func init() {
	paramsCmd.Flags().StringVar(&paramsFile, "file", "", "YAML parameter profile (defaults when empty)")
}

type resolved struct {
	Params          fhe.Params `yaml:"params"`
	ContextID       string     `yaml:"context_id"`
	CyclotomicOrder int        `yaml:"cyclotomic_order"`
	Slots           int        `yaml:"slots"`
	MaxLevel        int        `yaml:"max_level"`
}

func describeParams(w io.Writer, p fhe.Params) error {
	ctx, err := fhe.NewContext(p)
	if err != nil {
		return err
	}
	defer ctx.Close()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(resolved{
		Params:          ctx.Params(),
		ContextID:       ctx.ID(),
		CyclotomicOrder: ctx.CyclotomicOrder(),
		Slots:           ctx.Slots(),
		MaxLevel:        ctx.MaxLevel(),
	}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
