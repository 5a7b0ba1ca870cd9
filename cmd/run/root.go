package run

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/derekdreery/lockfile/cmd/util"
	"github.com/derekdreery/lockfile/lib/lockfile"
	"github.com/spf13/cobra"
)

// LockedExitCode is the exit status when the lock is held by another holder.
const LockedExitCode = 3

var (
	withParents bool

	// RunCmd acquires a lock and runs a command while holding it
	RunCmd = &cobra.Command{
		Use:   "run [path] -- [command] [args...]",
		Short: "Run a command while holding the lock at path",
		Long: fmt.Sprintf(`Acquire the lock at path, run the command while holding it, and release
the lock when the command exits. The command's exit status is passed
through. If the lock is held by another holder, nothing is run and the
exit status is %d.`, LockedExitCode),
		Args: cobra.MinimumNArgs(2),
		RunE: runRun,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	RunCmd.Flags().BoolVar(&withParents, "parents", false, "create missing parent directories of the lock path")
}

// runRun handles the run command
func runRun(cmd *cobra.Command, args []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	path := args[0]
	manager := util.NewManager()

	create := manager.Create
	if withParents {
		create = manager.CreateWithParents
	}

	lock, err := create(path)
	if errors.Is(err, lockfile.ErrAlreadyLocked) {
		cmd.SilenceUsage = true
		fmt.Fprintf(cmd.ErrOrStderr(), "lock %s is held by another holder\n", path)
		os.Exit(LockedExitCode)
	}
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %v", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	child := exec.Command(args[1], args[2:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start command: %v", err)
	}

	// Forward interrupts to the child; the lock is released once it exits.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for sig := range sigs {
			_ = child.Process.Signal(sig)
		}
	}()

	if err := child.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			_ = lock.Release()
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("command failed: %v", err)
	}
	return nil
}
