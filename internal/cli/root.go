// Package cli implements the pointmoney command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pointmoney/pointmoney/internal/daemon"
	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pointmoney",
	Short: "Point reward dashboard for workers and administrators",
	Long: `pointmoney keeps worker point balances, the grant/deduct ledger and
withdrawal requests, and serves them as a JSON API. Operator commands
work directly on the configured storage backend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.pointmoney/config.toml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Override storage.dir")
	rootCmd.PersistentFlags().String("backend", "", "Override storage.backend (sqlite|redis|memory)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config file and the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (daemon.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		return daemon.Config{}, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Storage.Backend = backend
	}
	return cfg, cfg.Validate()
}

// openDaemon assembles the registries without starting the API.
func openDaemon(cmd *cobra.Command) (*daemon.Daemon, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return daemon.New(cfg, log)
}

// asUser runs fn inside a session for loginID and then puts the previously
// logged-in user (if any) back, so operator commands leave the dashboard
// session as they found it.
func asUser(d *daemon.Daemon, loginID, password string, fn func() error) error {
	prev, hadSession := d.Users.Current()
	if _, err := d.Service.Login(loginID, password); err != nil {
		return err
	}
	defer func() {
		if hadSession {
			d.Users.Resume(prev.ID)
		} else {
			d.Users.Logout()
		}
	}()
	return fn()
}

// operatorFlags registers --login and --password on cmd.
func operatorFlags(cmd *cobra.Command) {
	cmd.Flags().String("login", "", "Administrator login ID")
	cmd.Flags().String("password", "", "Administrator password")
	cmd.MarkFlagRequired("login")
	cmd.MarkFlagRequired("password")
}

func operatorCredentials(cmd *cobra.Command) (string, string) {
	login, _ := cmd.Flags().GetString("login")
	password, _ := cmd.Flags().GetString("password")
	return login, password
}

func formatPoints(p int64) string {
	return fmt.Sprintf("%d pt", p)
}

func workerLabel(u domain.User) string {
	if u.Name == "" {
		return u.ID
	}
	return fmt.Sprintf("%s (%s)", u.Name, u.ID)
}
