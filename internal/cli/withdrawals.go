package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pointmoney/pointmoney/internal/app/actions"
	"github.com/pointmoney/pointmoney/internal/domain"
)

func init() {
	rootCmd.AddCommand(withdrawalsCmd)
	withdrawalsCmd.AddCommand(withdrawalsResolveCmd)

	withdrawalsCmd.Flags().Bool("pending", false, "Only show pending requests")
	withdrawalsCmd.Flags().String("worker", "", "Only show requests from this worker ID")

	operatorFlags(withdrawalsResolveCmd)
	withdrawalsResolveCmd.Flags().String("status", "", "processing|completed|rejected")
	withdrawalsResolveCmd.Flags().String("comment", "", "Comment shown to the worker")
	withdrawalsResolveCmd.MarkFlagRequired("status")
}

// ─── withdrawals ────────────────────────────────────────────────────────────

var withdrawalsCmd = &cobra.Command{
	Use:   "withdrawals",
	Short: "List withdrawal requests, newest first",
	RunE:  runWithdrawals,
}

func runWithdrawals(cmd *cobra.Command, args []string) error {
	pending, _ := cmd.Flags().GetBool("pending")
	workerID, _ := cmd.Flags().GetString("worker")

	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	var reqs []domain.WithdrawalRequest
	switch {
	case pending:
		reqs = d.Withdrawals.PendingRequests()
	case workerID != "":
		reqs = d.Withdrawals.RequestsByWorker(workerID)
	default:
		reqs = d.Withdrawals.Requests()
	}
	if len(reqs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No withdrawal requests.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tWORKER\tAMOUNT\tMETHOD\tSTATUS\tCOMMENT")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"), r.WorkerName,
			formatPoints(r.Amount), r.PaymentMethod, r.Status, r.AdminComment)
	}
	return tw.Flush()
}

// ─── withdrawals resolve ────────────────────────────────────────────────────

var withdrawalsResolveCmd = &cobra.Command{
	Use:   "resolve REQUEST_ID",
	Short: "Set the status of a withdrawal request",
	Long: `Record an administrator's review of a withdrawal request. The status may
be processing, completed or rejected; a request cannot be sent back to
pending. The comment replaces any earlier one.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithdrawalsResolve,
}

func runWithdrawalsResolve(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	comment, _ := cmd.Flags().GetString("comment")
	login, password := operatorCredentials(cmd)

	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	var req domain.WithdrawalRequest
	err = asUser(d, login, password, func() error {
		var err error
		req, err = d.Service.ResolveWithdrawal(actions.ResolveInput{
			ID:      args[0],
			Status:  domain.WithdrawalStatus(status),
			Comment: comment,
		})
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s (%s, %s) is now %s\n",
		req.ID, req.WorkerName, formatPoints(req.Amount), req.Status)
	return nil
}
