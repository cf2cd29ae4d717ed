package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/rotation/core/history"
	"github.com/kilianp07/rotation/core/model"
)

var historyOpts struct {
	player string
	policy string
	since  time.Duration
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored solves",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyOpts.player, "player", "", "only solves whose roster includes this player")
	f.StringVar(&historyOpts.policy, "policy", "", "only solves run with this policy")
	f.DurationVar(&historyOpts.since, "since", 0, "only solves newer than this, e.g. 72h")
	f.IntVarP(&historyOpts.limit, "limit", "n", 20, "show at most this many of the latest solves")
	rootCmd.AddCommand(historyCmd)
}

func listHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.History.Type == "" {
		return fmt.Errorf("no history store configured")
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	q := history.Query{Player: historyOpts.player, Policy: model.PolicyName(historyOpts.policy), Limit: historyOpts.limit}
	if historyOpts.since > 0 {
		q.Start = time.Now().Add(-historyOpts.since)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no solves found")
		return nil
	}

	rows := make([][]string, len(recs))
	for i, r := range recs {
		outcome, spread := "solved", "-"
		if !r.Solved {
			outcome = "unsatisfiable"
		} else if r.Solution != nil {
			spread = strconv.Itoa(r.Solution.Summary.Spread)
		}
		rows[i] = []string{
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			string(r.Policy),
			strconv.FormatUint(r.Seed, 10),
			outcome,
			strconv.Itoa(r.Attempts),
			spread,
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Time", "Policy", "Seed", "Outcome", "Attempts", "Spread").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
