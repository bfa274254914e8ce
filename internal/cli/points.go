package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pointmoney/pointmoney/internal/app/actions"
	"github.com/pointmoney/pointmoney/internal/domain"
)

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.AddCommand(pointsGrantCmd)
	pointsCmd.AddCommand(pointsDeductCmd)

	for _, c := range []*cobra.Command{pointsGrantCmd, pointsDeductCmd} {
		operatorFlags(c)
		c.Flags().String("worker", "", "Worker ID")
		c.Flags().Int64("amount", 0, "Points to move")
		c.Flags().String("reason", "", "Reason recorded on the ledger")
		c.MarkFlagRequired("worker")
		c.MarkFlagRequired("amount")
	}
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Grant or deduct worker points",
}

var pointsGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant points to a worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(cmd, domain.TxAdd)
	},
}

var pointsDeductCmd = &cobra.Command{
	Use:   "deduct",
	Short: "Deduct points from a worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(cmd, domain.TxSubtract)
	},
}

func runAdjust(cmd *cobra.Command, typ domain.TransactionType) error {
	workerID, _ := cmd.Flags().GetString("worker")
	amount, _ := cmd.Flags().GetInt64("amount")
	reason, _ := cmd.Flags().GetString("reason")
	login, password := operatorCredentials(cmd)

	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	var adj actions.Adjustment
	err = asUser(d, login, password, func() error {
		var err error
		adj, err = d.Service.AdjustPoints(actions.AdjustInput{
			WorkerID: workerID,
			Amount:   amount,
			Type:     typ,
			Reason:   reason,
		})
		return err
	})
	if err != nil {
		return err
	}

	worker, _ := d.Users.GetUser(workerID)
	fmt.Fprintf(cmd.OutOrStdout(), "✅ %+d → %s, balance %s\n",
		adj.Transaction.Signed(), workerLabel(worker), formatPoints(adj.Balance))
	return nil
}
