package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cudabot/octobot/agent"
	"github.com/cudabot/octobot/turnlog"
)

var failOnDiverge bool

var replayCmd = &cobra.Command{
	Use:   "replay <match.jsonl.zst>",
	Short: "Re-run a recorded match",
	Long: `Feed every recorded observation through a fresh agent using the current
config and compare each decision with the recorded actions.

Examples:
  octobot replay turns/match-5f1c.jsonl.zst
  octobot replay --config tuned.yaml --strict turns/match-5f1c.jsonl.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := turnlog.Open(fs, args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		report, err := agent.Replay(cmd.Context(), cfg, r)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report)
		if failOnDiverge && len(report.Divergences) > 0 {
			return fmt.Errorf("%d of %d turns diverged", len(report.Divergences), report.Turns)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&failOnDiverge, "strict", false, "exit non-zero when any turn diverges")
	rootCmd.AddCommand(replayCmd)
}
