// Package cli wires the lunalog commands: the HTTP server, the offline
// period log, predictions and account recovery.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunalog/internal/config"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/logging"
	"github.com/terraincognita07/lunalog/internal/logstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type environment struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
	now        func() time.Time

	openDatabase func(path string, logger *zap.Logger) (*gorm.DB, error)
}

func NewRootCommand(version string) *cobra.Command {
	env := &environment{now: time.Now, openDatabase: db.OpenSQLite}

	root := &cobra.Command{
		Use:           "lunalog",
		Short:         "Self-hosted period tracker and cycle predictions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if env.logger != nil {
				_ = env.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&env.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCommand(env),
		newLogCommand(env),
		newPredictCommand(env),
		newResetPasswordCommand(env),
	)
	return root
}

func (env *environment) load() error {
	cfg, err := config.Load(env.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	env.cfg = cfg
	env.logger = logger
	return nil
}

// openStore opens the local period log under the configured store directory.
func (env *environment) openStore() (*logstore.Store, error) {
	backend, err := logstore.NewFileKV(env.cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return logstore.New(backend, env.logger.Named("logstore"), logstore.WithOverlapPolicy(env.cfg.Overlap())), nil
}
