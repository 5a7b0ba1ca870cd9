package check

import (
	"errors"
	"fmt"

	"github.com/derekdreery/lockfile/cmd/util"
	"github.com/derekdreery/lockfile/lib/lockfile"
	"github.com/spf13/cobra"
)

var (
	// CheckCmd reports whether a lock path is currently held
	CheckCmd = &cobra.Command{
		Use:   "check [path]",
		Short: "Check whether the lock at path is currently held",
		Long: `Check whether the lock at path is currently held by probing it: the lock
is briefly acquired and released again, so the lock file is created and
removed if the path turns out to be free.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

// runCheck handles the check command
func runCheck(cmd *cobra.Command, args []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	manager := util.NewManager()

	lock, err := manager.Create(args[0])
	if errors.Is(err, lockfile.ErrAlreadyLocked) {
		fmt.Printf("locked=true\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to probe lock: %v", err)
	}

	_ = lock.Release()
	fmt.Printf("locked=false\n")
	return nil
}
