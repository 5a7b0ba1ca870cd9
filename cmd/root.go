package cmd

import (
	"fmt"
	"os"

	"github.com/derekdreery/lockfile/cmd/check"
	"github.com/derekdreery/lockfile/cmd/run"
	"github.com/spf13/cobra"
)

const (
	Version = "0.4.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "lockfile",
		Short: "advisory file lock utility",
		Long: fmt.Sprintf(`lockfile (v%s)

A utility for advisory file-based locking: run commands under an
exclusive file lock, or check whether a lock path is currently held.
Locks are advisory and respected only by cooperating processes.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lockfile",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lockfile v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(run.RunCmd)
	RootCmd.AddCommand(check.CheckCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "logging"
	RootCmd.PersistentFlags().String(key, "disabled", "lock event logging (enabled, disabled)")
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "debug", "log level for lock event logging (debug, info, warn, error)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
