package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/config"
	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/logger"
	"github.com/abhisek/pharmdrill/internal/progress"
	"github.com/abhisek/pharmdrill/internal/selection"
	"github.com/abhisek/pharmdrill/internal/store"
)

// envOpts says which resources a command needs.
type envOpts struct {
	data      bool // load the drug table
	optional  bool // a missing or broken drug table is not fatal
	reconcile bool // re-key progress to the loaded table, which may save
	events    bool // open the event log
}

// env is the set of resources shared by every command.
type env struct {
	Config    *config.Config
	Logger    *zap.Logger
	Dataset   *dataset.Dataset
	Selection *selection.State
	Progress  *progress.Store
	Store     *store.Store // nil when the event log is disabled
}

// openEnv resolves configuration from the command's flags and opens what
// opts asks for. The caller must Close the result.
func openEnv(cmd *cobra.Command, opts envOpts) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	e := &env{Config: cfg, Logger: log}
	e.Progress = progress.Open(cfg.ProgressPath, progress.Options{Logger: log})

	if opts.data {
		if err := e.loadData(opts); err != nil {
			e.Close()
			return nil, err
		}
	}

	if opts.events && eventsEnabled(cfg.EventsDB) {
		if err := store.EnsureDir(cfg.EventsDB); err != nil {
			e.Close()
			return nil, fmt.Errorf("create event log dir: %w", err)
		}
		st, err := store.Open(cfg.EventsDB)
		if err != nil {
			// The event log is optional; study modes still work without it.
			log.Warn("event log unavailable", zap.String("path", cfg.EventsDB), zap.Error(err))
		} else {
			e.Store = st
		}
	}

	return e, nil
}

func (e *env) loadData(opts envOpts) error {
	cfg, log := e.Config, e.Logger
	ds, err := dataset.Load(cfg.DataPath, dataset.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		if opts.optional {
			log.Warn("drug table unavailable", zap.String("path", cfg.DataPath), zap.Error(err))
			return nil
		}
		return err
	}
	log.Info("drug table loaded",
		zap.String("path", cfg.DataPath),
		zap.Int("drugs", ds.Len()),
		zap.Int("sections", len(ds.Sections)))
	e.Dataset = ds
	e.Selection = selection.New(ds)

	if !opts.reconcile {
		return nil
	}
	moved, err := e.Progress.Reconcile(ds)
	if err != nil {
		log.Warn("progress reconcile not saved", zap.Error(err))
	} else if moved > 0 {
		log.Info("progress re-keyed to current table", zap.Int("moved", moved))
	}
	return nil
}

func eventsEnabled(path string) bool {
	return path != "" && !strings.EqualFold(path, "off")
}

// Events returns the event repository, or nil when the log is disabled.
func (e *env) Events() store.EventRepo {
	if e.Store == nil {
		return nil
	}
	return e.Store.EventRepo()
}

// requireEvents returns the event repository or an error naming how to enable it.
func (e *env) requireEvents() (store.EventRepo, error) {
	if e.Store == nil {
		return nil, errors.New("event log is disabled; set --db or PHARMDRILL_EVENTS_DB")
	}
	return e.Store.EventRepo(), nil
}

// Close flushes pending progress and releases the event log.
func (e *env) Close() {
	if e.Progress != nil && e.Progress.Dirty() {
		if err := e.Progress.Save(); err != nil {
			e.Logger.Error("progress not saved on exit", zap.Error(err))
		}
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
	_ = e.Logger.Sync()
}
