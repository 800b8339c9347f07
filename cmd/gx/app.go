package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/internal/config"
	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/internal/paths"
	"github.com/amonks/guidex/internal/state"
	"github.com/amonks/guidex/internal/telemetry"
	"github.com/amonks/guidex/metrics"
	"github.com/amonks/guidex/session"
	"github.com/amonks/guidex/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is what every command shares: configuration, the logger, device
// state, and lazily the record store and insight service.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	state  *state.Store

	store   store.Store
	insight insight.Service
}

var (
	currentMu  sync.Mutex
	currentApp *app
)

// loadApp loads configuration and logging once per process.
func loadApp(cmd *cobra.Command) (*app, error) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if currentApp != nil {
		return currentApp, nil
	}

	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	logFile, err := paths.ResolveWithDefault(cfg.Log.File, paths.DefaultLogFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{File: logFile, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}
	telemetry.InitMetrics(nil)

	stateDir, err := paths.DefaultStateDir()
	if err != nil {
		return nil, err
	}

	currentApp = &app{
		cfg:    cfg,
		logger: logger.With(zap.String("command", cmd.CommandPath())),
		state:  state.NewStore(stateDir),
	}
	return currentApp, nil
}

func closeApp() {
	currentMu.Lock()
	defer currentMu.Unlock()
	if currentApp == nil {
		return
	}
	if currentApp.store != nil {
		if err := currentApp.store.Close(); err != nil {
			currentApp.logger.Warn("store_close_failed", zap.Error(err))
		}
	}
	_ = currentApp.logger.Sync()
	currentApp = nil
}

// account returns the signed-in owner and email. GUIDEX_OWNER wins over a
// login, which wins over the config file.
func (a *app) account() (owner, email string, err error) {
	if strings.TrimSpace(os.Getenv(config.EnvOwner)) != "" {
		return a.cfg.Account.Owner, a.cfg.Account.Email, nil
	}
	loggedIn, ok, err := a.state.Get(state.KeyOwner)
	if err != nil {
		return "", "", err
	}
	if ok && loggedIn != "" {
		email, _, err := a.state.Get(state.KeyEmail)
		if err != nil {
			return "", "", err
		}
		return loggedIn, email, nil
	}
	return a.cfg.Account.Owner, a.cfg.Account.Email, nil
}

// storeOptions resolves the configured backend and its path.
func (a *app) storeOptions(watch bool) (store.OpenOptions, error) {
	backend := store.Backend(strings.ToLower(strings.TrimSpace(a.cfg.Store.Backend)))
	opts := store.OpenOptions{Backend: backend, Path: a.cfg.Store.Path, Watch: watch, Logger: a.logger}
	if opts.Path != "" || backend == store.BackendMemory {
		return opts, nil
	}
	dataDir, err := paths.DefaultDataDir()
	if err != nil {
		return opts, err
	}
	opts.Path = dataDir
	if backend == store.BackendSQLite {
		opts.Path = filepath.Join(dataDir, "guidex.db")
	}
	return opts, nil
}

func (a *app) openStore(ctx context.Context, watch bool) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	opts, err := a.storeOptions(watch)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) insightService(ctx context.Context) insight.Service {
	if a.insight == nil {
		a.insight = insight.New(ctx, insight.Options{
			APIKey:      a.cfg.Insight.APIKey,
			Model:       a.cfg.Insight.Model,
			SpeechModel: a.cfg.Insight.SpeechModel,
			Voice:       a.cfg.Insight.Voice,
			Logger:      a.logger,
		})
	}
	return a.insight
}

func (a *app) settings() dashboard.Settings {
	settings := dashboard.DefaultSettings()
	settings.MoodWindow = a.cfg.Metrics.MoodWindow
	if a.cfg.Metrics.TopActive > 0 {
		settings.TopActive = a.cfg.Metrics.TopActive
	}
	settings.Weights = metrics.EffortWeights{
		ReflectionHours: a.cfg.Metrics.ReflectionHours,
		DeepWorkHours:   a.cfg.Metrics.DeepWorkHours,
	}
	return settings
}

func (a *app) journalMoodWindow() int {
	return a.cfg.Metrics.JournalMoodWindow
}

// openBoard opens the signed-in owner's board. watch enables cross-process
// change notifications for long-running commands.
func (a *app) openBoard(ctx context.Context, watch bool) (*dashboard.Board, error) {
	owner, email, err := a.account()
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, store.ErrAuth
	}
	s, err := a.openStore(ctx, watch)
	if err != nil {
		return nil, err
	}
	return dashboard.Open(ctx, dashboard.Options{
		Store:      s,
		Insight:    a.insightService(ctx),
		Owner:      owner,
		Email:      email,
		Categories: a.cfg.GoalCategories(),
		Settings:   a.settings(),
		Logger:     a.logger,
	})
}

// timer is the device-local focus session timer.
func (a *app) timer() *session.Timer {
	return session.NewTimer(a.state, session.TimerOptions{})
}

// boardFor is the common prologue of record commands.
func boardFor(cmd *cobra.Command) (*app, *dashboard.Board, error) {
	a, err := loadApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	board, err := a.openBoard(cmd.Context(), false)
	if err != nil {
		return nil, nil, err
	}
	return a, board, nil
}

func now() time.Time {
	return time.Now()
}
