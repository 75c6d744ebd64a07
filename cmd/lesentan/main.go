// Command lesentan is a small CLI wrapper over the deinflection engine: it
// loads a descriptor, runs a surface string through Transform, and prints
// the candidate chain. It mirrors the teacher CLI's rootCmd/PersistentPreRunE
// lifecycle for its zap logger rather than inventing a new one.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Casheeew/lesen-tan/internal/engineconfig"
)

var (
	verbose        bool
	descriptorPath string
	jsonOutput     bool
	configPath     string
	normalizeInput bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lesentan",
	Short: "lesentan deinflects a surface word against a language transform descriptor",
	Long: `lesentan runs a breadth-first deinflection search over a JSON
transform descriptor: given an inflected surface string, it enumerates every
candidate lemma reachable by repeatedly un-applying the descriptor's rules.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&descriptorPath, "descriptor", "", "path to a transform descriptor JSON file (overrides config and LESENTAN_DESCRIPTOR)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an engineconfig YAML file")

	transformCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit results as a JSON array instead of text")
	transformCmd.Flags().BoolVar(&normalizeInput, "normalize", false, "normalize the surface argument to NFC before searching")

	rootCmd.AddCommand(transformCmd, flagsCmd, validateCmd, watchCmd)
}

func loadConfig() (engineconfig.Config, error) {
	cfg, err := engineconfig.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if descriptorPath != "" {
		cfg.DescriptorPaths = append([]string{descriptorPath}, cfg.DescriptorPaths...)
	}
	return cfg, nil
}

func firstDescriptorPath(cfg engineconfig.Config) (string, error) {
	if len(cfg.DescriptorPaths) == 0 {
		return "", fmt.Errorf("no descriptor configured: pass --descriptor, set LESENTAN_DESCRIPTOR, or add descriptorPaths to --config")
	}
	return cfg.DescriptorPaths[0], nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
