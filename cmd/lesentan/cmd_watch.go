package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Casheeew/lesen-tan/internal/descriptor"
	"github.com/Casheeew/lesen-tan/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "reload the descriptor on change and print a summary each time",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := firstDescriptorPath(cfg)
	if err != nil {
		return err
	}

	w, err := watch.New(path, logger, func(c *descriptor.Compiled) {
		fmt.Fprintf(cmd.OutOrStdout(), "reloaded %s: %d rules\n", path, len(c.Rules))
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s, press Ctrl+C to stop\n", path)
	<-ctx.Done()
	return nil
}
