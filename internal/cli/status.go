package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

// slotLister is implemented by backends that can enumerate their slots.
type slotLister interface {
	Keys(ctx context.Context) ([]string, error)
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session, registry sizes and stored slots",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Backend:      %s\n", d.Config.Storage.Backend)
	if u, ok := d.Users.Current(); ok {
		fmt.Fprintf(w, "Session:      %s\n", workerLabel(u))
	} else {
		fmt.Fprintln(w, "Session:      (none)")
	}
	fmt.Fprintf(w, "Users:        %d (%d workers)\n", len(d.Users.Users()), len(d.Users.Workers()))
	fmt.Fprintf(w, "Transactions: %d\n", d.Ledger.Len())
	fmt.Fprintf(w, "Withdrawals:  %d (%d pending)\n",
		len(d.Withdrawals.Requests()), len(d.Withdrawals.PendingRequests()))

	lister, ok := d.Backend.(slotLister)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	keys, err := lister.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list slots: %w", err)
	}
	fmt.Fprintln(w)
	if len(keys) == 0 {
		fmt.Fprintln(w, "No slots written yet.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tUPDATED")
	for _, k := range keys {
		ts, err := lister.UpdatedAt(ctx, k)
		if err != nil {
			return fmt.Errorf("slot %s: %w", k, err)
		}
		fmt.Fprintf(tw, "%s\t%s\n", k, ts.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
