package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orderpulse/report-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted report runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{Kind: kind, Limit: limit})
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(os.Stdout, runs)
		}

		if len(runs) == 0 {
			fmt.Println("No runs.")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-19s  %8s  %s\n", "ID", "Kind", "Created", "Coerced", "Source")
		for _, r := range runs {
			fmt.Printf("%-36s  %-10s  %-19s  %8d  %s\n",
				r.ID, r.Kind, r.CreatedAt.Format("2006-01-02 15:04:05"), r.CoercionCount, r.Source)
		}
		return nil
	},
}

func init() {
	f := runsCmd.Flags()
	f.String("kind", "", "filter by run kind (aggregate, compare, rollup, summary)")
	f.Int("limit", 50, "max runs to list")
	f.Bool("json", false, "output JSON instead of a table")

	rootCmd.AddCommand(runsCmd)
}
