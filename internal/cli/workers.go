package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().String("worker", "", "Only show entries for this worker ID")
	ledgerCmd.Flags().Int("limit", 20, "Maximum entries to show (0 for all)")
}

// ─── workers ────────────────────────────────────────────────────────────────

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List workers and their balances",
	RunE:  runWorkers,
}

func runWorkers(cmd *cobra.Command, args []string) error {
	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	workers := d.Users.Workers()
	if len(workers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No workers registered.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOGIN\tPOINTS\tEARNED\tLAST LOGIN")
	for _, w := range workers {
		lastLogin := "-"
		if w.LastLogin != nil {
			lastLogin = w.LastLogin.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			w.ID, w.Name, w.LoginID, formatPoints(w.Points), formatPoints(w.TotalEarned), lastLogin)
	}
	return tw.Flush()
}

// ─── ledger ─────────────────────────────────────────────────────────────────

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show point transactions, newest first",
	RunE:  runLedger,
}

func runLedger(cmd *cobra.Command, args []string) error {
	workerID, _ := cmd.Flags().GetString("worker")
	limit, _ := cmd.Flags().GetInt("limit")

	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	txs := d.Ledger.Transactions()
	if workerID != "" {
		txs = d.Ledger.ByWorker(workerID)
	}
	if len(txs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
		return nil
	}
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tWORKER\tAMOUNT\tBY\tREASON")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%+d\t%s\t%s\n",
			tx.Timestamp.Local().Format("2006-01-02 15:04"),
			tx.WorkerName, tx.Signed(), tx.AdminName, tx.Reason)
	}
	return tw.Flush()
}
