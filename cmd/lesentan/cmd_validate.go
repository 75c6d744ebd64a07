package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	lesentan "github.com/Casheeew/lesen-tan"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "compile one or more descriptor files and report load errors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	hasError := false
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			files = append(files, pattern)
			continue
		}
		files = append(files, matches...)
	}

	// Each file compiles independently, so validation fans out across an
	// errgroup; results land in a pre-sized, index-addressed slice so the
	// printed order stays the file order regardless of completion order.
	lines := make([]string, len(files))
	failed := make([]bool, len(files))

	var eg errgroup.Group
	for i, path := range files {
		eg.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				lines[i] = fmt.Sprintf("%s: %v", path, err)
				failed[i] = true
				return nil
			}
			engine := lesentan.New()
			if _, err := engine.AddDescriptor(raw); err != nil {
				lines[i] = fmt.Sprintf("%s: %v", path, err)
				failed[i] = true
				return nil
			}
			lines[i] = fmt.Sprintf("%s: ok", path)
			return nil
		})
	}
	_ = eg.Wait()

	for i, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
		if failed[i] {
			hasError = true
		}
	}

	if hasError {
		return fmt.Errorf("one or more descriptors failed to load")
	}
	return nil
}
