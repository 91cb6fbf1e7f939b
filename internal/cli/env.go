package cli

import (
	"context"
	"database/sql"
	"io"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/config"
	"github.com/llehouerou/musichub/internal/db"
	"github.com/llehouerou/musichub/internal/errmsg"
	"github.com/llehouerou/musichub/internal/log"
)

// env holds what every command needs: settings, a logger and the catalog.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	db      *sql.DB
	catalog *catalog.Store

	closers []io.Closer
}

// envOptions tunes openEnv per command.
type envOptions struct {
	// logToFile sends logs to the default log file when none is
	// configured, keeping the terminal free for the player.
	logToFile bool
}

func openEnv(ctx context.Context, cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}

	logCfg := cfg.GetLogConfig()
	if lvl := lo.Must(cmd.Flags().GetString(flagLogLevel)); lvl != "" {
		logCfg.Level = lvl
	}
	if opts.logToFile && logCfg.File == "" {
		if logCfg.File, err = log.DefaultFile(); err != nil {
			return nil, errmsg.Wrap(errmsg.OpInitialize, err)
		}
	}
	logger, logCloser, err := log.Setup(afero.NewOsFs(), logCfg)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}
	e := &env{cfg: cfg, log: logger, closers: []io.Closer{logCloser}}

	path, err := databasePath(cmd, cfg)
	if err != nil {
		e.Close()
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}
	if e.db, err = db.Open(path); err != nil {
		e.Close()
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}
	e.closers = append(e.closers, e.db)
	logger.WithField("path", path).Debug("database opened")

	e.catalog = catalog.NewStore(e.db, catalog.WithWrapAround(cfg.GetPlaybackConfig().WrapAround))
	if err := e.catalog.Load(ctx); err != nil {
		e.Close()
		return nil, errmsg.Wrap(errmsg.OpCatalogLoad, err)
	}
	return e, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	extra := lo.Must(cmd.Flags().GetString(flagConfig))
	if extra == "" {
		return config.Load()
	}
	return config.LoadFrom(append(config.Paths(), extra)...)
}

func databasePath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p := lo.Must(cmd.Flags().GetString(flagDatabase)); p != "" {
		return p, nil
	}
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	return db.Path()
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.log.WithError(err).Debug("closing resource")
		}
	}
	e.closers = nil
}
