package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lesentan "github.com/Casheeew/lesen-tan"
)

var flagsCmd = &cobra.Command{
	Use:   "flags <condition-name>",
	Short: "print the expanded condition flags for a named condition",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlags,
}

func runFlags(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := firstDescriptorPath(cfg)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read descriptor %s: %w", path, err)
	}

	engine := lesentan.New()
	if _, err := engine.AddDescriptor(raw); err != nil {
		return err
	}

	flags, err := engine.ConditionFlagsOf(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", flags.Key())
	return nil
}
