package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmezzich/MezzAI-Backend/internal/metrics"
)

func init() {
	rootCmd.AddCommand(pieCmd, metricsCmd)
	metricsCmd.AddCommand(metricsSeedCmd, metricsPeekCmd)
}

var pieCmd = &cobra.Command{
	Use:   "pie [type]",
	Short: "Print a random pie distribution (leads, tickets, outcomes)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := metrics.DefaultPieType
		if len(args) == 1 {
			kind = args[0]
		}
		return printJSON(cmd.OutOrStdout(), metrics.NewGenerator().Pie(kind))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Seed or read the demo metrics snapshot in the configured store",
}

var metricsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a fresh metrics snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		kv, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		snap := metrics.NewGenerator().Snapshot()
		if err := kv.Set(cmd.Context(), metrics.SnapshotPath, snap); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), snap)
	},
}

var metricsPeekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Print the stored metrics snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		kv, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		raw, ok, err := kv.Get(cmd.Context(), metrics.SnapshotPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "no snapshot stored")
			fmt.Fprintln(cmd.OutOrStdout(), "{}")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}
