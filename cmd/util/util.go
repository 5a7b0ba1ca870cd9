package util

import (
	"strings"

	"github.com/derekdreery/lockfile/lib/fs/osfs"
	"github.com/derekdreery/lockfile/lib/lockfile"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("lockfile")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// NewObserver builds the lock observer selected by configuration. With
// logging disabled (the default) the no-op observer is returned and no
// logger is constructed at all.
func NewObserver() lockfile.ILockObserver {
	if viper.GetString("logging") != "enabled" {
		return lockfile.NewNoopObserver()
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "lockfile",
		Level: hclog.LevelFromString(viper.GetString("log-level")),
	})
	return lockfile.NewLogObserver(logger)
}

// NewManager builds a lock manager on the host filesystem with the
// configured observer.
func NewManager() lockfile.ILockManager {
	return lockfile.NewLockManager(osfs.New(), lockfile.WithObserver(NewObserver()))
}
