package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lesentan "github.com/Casheeew/lesen-tan"
	"github.com/Casheeew/lesen-tan/internal/surface"
)

var transformCmd = &cobra.Command{
	Use:   "transform <surface>",
	Short: "enumerate candidate lemmas for a surface string",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransform,
}

func runTransform(cmd *cobra.Command, args []string) error {
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

	opts := []lesentan.Option{
		lesentan.WithMaxTraceDepth(cfg.MaxTraceDepth),
		lesentan.WithVisitedSetHint(cfg.VisitedSetHint),
	}
	if logger != nil {
		opts = append(opts, lesentan.WithLogger(logger))
	}
	engine := lesentan.New(opts...)
	if _, err := engine.AddDescriptor(raw); err != nil {
		return err
	}

	source := args[0]
	if normalizeInput {
		source = surface.NormalizeNFC(source)
	}

	states := engine.Transform(source)
	if jsonOutput {
		return printJSON(cmd, states)
	}
	return printText(cmd, source, states)
}

func printText(cmd *cobra.Command, source string, states []lesentan.CandidateState) error {
	for _, s := range states {
		if len(s.Trace) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", s.Text)
			continue
		}
		rules := make([]string, len(s.Trace))
		for i, f := range s.Trace {
			rules[i] = f.Rule
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", s.Text, rules)
	}
	return nil
}

func printJSON(cmd *cobra.Command, states []lesentan.CandidateState) error {
	type frame struct {
		Rule       string `json:"rule"`
		TextBefore string `json:"textBefore"`
	}
	type candidate struct {
		Text  string  `json:"text"`
		Trace []frame `json:"trace"`
	}
	out := make([]candidate, len(states))
	for i, s := range states {
		c := candidate{Text: s.Text}
		for _, f := range s.Trace {
			c.Trace = append(c.Trace, frame{Rule: f.Rule, TextBefore: f.TextBefore})
		}
		out[i] = c
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
