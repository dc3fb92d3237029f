package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/export"
	"sweep-radar.klederson.com/internal/radar"
)

// scopeMargin leaves room around the outer ring for labels.
const scopeMargin = 60

func newSnapshotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Scan once and write the radar frame as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			log, closeLog, err := newLogger()
			if err != nil {
				return err
			}
			defer closeLog()

			source, _, stop, err := newDiscoverer(log)
			if err != nil {
				permissionHelp(err)
				return err
			}
			defer stop()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ScanWindow+10*time.Second)
			defer cancel()
			found, err := source.Discover(ctx)
			var partial *bluetooth.PartialError
			if err != nil && !errors.As(err, &partial) {
				return fmt.Errorf("scan: %w", err)
			}

			ctrl := radar.NewController(cfg, radar.WithLogger(log))
			res := ctrl.OnScanResult(found)
			frame := ctrl.Render()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			size := 2 * (cfg.Radius + scopeMargin)
			if err := export.WriteFrame(f, frame.Commands, size, size); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d devices, %dx%d)\n", out, len(res.View), size, size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "radar.png", "Output PNG path")
	return cmd
}
