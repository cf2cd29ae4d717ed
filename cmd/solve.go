package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rotation/app"
	"github.com/kilianp07/rotation/core/model"
	"github.com/kilianp07/rotation/infra/logger"
	"github.com/kilianp07/rotation/pkg/export"
)

var solveOpts struct {
	policy  string
	seed    uint64
	format  string
	output  string
	publish bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Plan a rotation for the configured team",
	Args:  cobra.NoArgs,
	RunE:  solve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&solveOpts.policy, "policy", "", "policy override: target_minutes or balanced_equal")
	f.Uint64Var(&solveOpts.seed, "seed", 0, "random seed; a random one is drawn when unset")
	f.StringVarP(&solveOpts.format, "format", "f", string(export.FormatTable), "output format: table, csv, json, yaml or html")
	f.StringVarP(&solveOpts.output, "output", "o", "", "write to this file instead of stdout")
	f.BoolVar(&solveOpts.publish, "publish", false, "publish the rotation to the MQTT broker")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := export.ParseFormat(solveOpts.format)
	if err != nil {
		return err
	}
	policy := model.PolicyName(solveOpts.policy)
	if policy != "" && !policy.Valid() {
		return fmt.Errorf("unknown policy %q", policy)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	req := app.Request{Team: cfg.Team, Policy: policy, Publish: solveOpts.publish}
	if cmd.Flags().Changed("seed") {
		req.Seed = &solveOpts.seed
	}
	res, err := svc.Solve(ctx, req)
	if err != nil {
		return err
	}

	if solveOpts.output == "" {
		return export.Write(cmd.OutOrStdout(), format, res.Solution)
	}
	f, err := os.Create(solveOpts.output)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, res.Solution); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "rotation %s (seed %d) written to %s\n", res.ID, res.Seed, solveOpts.output)
	return nil
}
