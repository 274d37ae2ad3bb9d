// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"PartialVAR_Estimation/logging"
)

// pvar simulates a partially observed VAR(1) process and estimates its
// transition matrix. Every command reads one experiment point from a YAML
// file (--config) and lets a few flags override it:
//
//	pvar simulate  --config exp.yaml --out run1
//	pvar estimate  --config exp.yaml --method sparse
//	pvar estimate  --config exp.yaml --observations run1/observations.csv
//	pvar replicate --config exp.yaml --count 200 --workers 8 --out errors.csv

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(NewCmd().ExecuteContext(ctx))
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "pvar [command] [flags]",
		Short:         "pvar estimates the transition matrix of a partially observed VAR(1) process",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "`<File>` experiment configuration (yaml), defaults when empty")
	rootCmd.PersistentFlags().Uint64P("seed", "s", 0, "`<Seed>` overrides the configured seed")
	rootCmd.PersistentFlags().String("log-level", "", "`<Level>` overrides log.defaultLevel")

	simulateCmd := &cobra.Command{
		Use:   "simulate [flags]",
		Short: "Simulate one trajectory and write it as CSV",
		RunE:  doSimulate,
	}
	simulateCmd.Flags().StringP("out", "o", "", "`<Dir>` directory for theta, latent, mask and observation files")
	simulateCmd.MarkFlagRequired("out")

	estimateCmd := &cobra.Command{
		Use:   "estimate [flags]",
		Short: "Estimate theta from a simulation or from observations on disk",
		RunE:  doEstimate,
	}
	estimateCmd.Flags().StringP("method", "m", "", "`<Method>` dense, sparse or oracle")
	estimateCmd.Flags().String("observations", "", "`<File>` CSV of partial observations, empty cells unobserved")
	estimateCmd.Flags().StringP("out", "o", "", "`<Dir>` directory for the estimated theta")

	replicateCmd := &cobra.Command{
		Use:   "replicate [flags]",
		Short: "Repeat simulate and estimate and summarize the errors",
		RunE:  doReplicate,
	}
	replicateCmd.Flags().StringP("method", "m", "", "`<Method>` dense, sparse or oracle")
	replicateCmd.Flags().IntP("count", "n", 0, "`<N>` number of replications")
	replicateCmd.Flags().IntP("workers", "w", 0, "`<N>` worker goroutines, number of CPUs when 0")
	replicateCmd.Flags().StringP("out", "o", "", "`<File>` CSV of per-replication errors")

	rootCmd.AddCommand(
		simulateCmd,
		estimateCmd,
		replicateCmd,
	)
	return rootCmd
}

// loadConfig reads --config, applies the flag overrides shared by every
// command and configures logging.
func loadConfig(cmd *cobra.Command) (*ExperimentConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if path != "" {
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("seed") {
		if cfg.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("method"); f != nil && f.Changed {
		cfg.Estimator.Method = f.Value.String()
	}
	if f := cmd.Flags().Lookup("count"); f != nil && f.Changed {
		if cfg.Replications.Count, err = cmd.Flags().GetInt("count"); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		if cfg.Replications.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.DefaultLevel = lvl
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Configure(&cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func doSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	_, _, err = runSimulate(cfg, out, cmd.OutOrStdout())
	return err
}

func doEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	obsPath, err := cmd.Flags().GetString("observations")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	_, err = runEstimate(cmd.Context(), cfg, obsPath, out, cmd.OutOrStdout())
	return err
}

func doReplicate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	_, err = runReplicate(cmd.Context(), cfg, out, cmd.OutOrStdout())
	return err
}
