package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("ledger", false, "Clear every point transaction")
	resetCmd.Flags().Bool("withdrawals", false, "Clear every withdrawal request")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the ledger and/or withdrawal history",
	Long: `Remove stored history. Balances and the user registry are not touched,
so a cleared ledger no longer explains current balances.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	ledger, _ := cmd.Flags().GetBool("ledger")
	withdrawals, _ := cmd.Flags().GetBool("withdrawals")
	if !ledger && !withdrawals {
		return fmt.Errorf("nothing to reset: pass --ledger and/or --withdrawals")
	}

	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if ledger {
		d.Service.ClearLedger()
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Ledger cleared")
	}
	if withdrawals {
		d.Service.ClearWithdrawals()
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Withdrawal history cleared")
	}
	return nil
}
