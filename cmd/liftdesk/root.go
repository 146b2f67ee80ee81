package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"liftdesk/internal/api"
	"liftdesk/internal/auth"
	"liftdesk/internal/config"
	"liftdesk/internal/eventbus"
)

type rootOptions struct {
	ConfigPath string
	LogFile    string
	Verbose    bool
}

// app holds everything the subcommands share
type app struct {
	cfg       *config.Config
	configSvc config.ConfigService
	log       *logrus.Logger
	logFile   io.Closer
	bus       eventbus.EventBus
	client    *api.Client
	auth      *auth.Service
}

func (a *app) close() {
	if a.bus != nil {
		a.bus.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	a := &app{}

	cmd := &cobra.Command{
		Use:           "liftdesk",
		Short:         "Terminal client for the LegendLift elevator service backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+filepath.Join(config.Dir(), "config.toml")+")")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "log file (default "+defaultLogFile()+")")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newTUICmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newSuggestCmd(a))
	cmd.AddCommand(newScreensCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

func defaultLogFile() string {
	return filepath.Join(config.Dir(), "liftdesk.log")
}

func (a *app) setup(opts rootOptions) error {
	log, closer, err := newLogger(opts.LogFile)
	if err != nil {
		return err
	}
	a.log, a.logFile = log, closer

	a.bus = eventbus.New(log)
	a.audit()
	configSvc := config.NewConfigServiceWithBus(opts.ConfigPath, a.bus)
	a.configSvc = configSvc
	cfg, err := configSvc.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	log.WithFields(logrus.Fields{"config": configSvc.Path(), "base_url": cfg.API.BaseURL}).Debug("config loaded")

	a.client = api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout.Duration,
		UserAgent: cfg.API.UserAgent,
		Logger:    log,
	})
	a.auth = auth.NewService(a.client, auth.NewStore(cfg.SessionFile), a.bus, log)
	return nil
}

// audit records the domain events worth keeping in the log file
func (a *app) audit() {
	a.bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigSavedEvent); ok {
			a.log.WithField("path", ev.Path).Info("config saved")
		}
	})
	a.bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ErrorEvent); ok {
			a.log.WithError(ev.Err).Error(ev.Message)
		}
	})
	a.bus.Subscribe(eventbus.EventItemDeleted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ItemDeletedEvent); ok {
			a.log.WithFields(logrus.Fields{"screen": ev.Screen, "entity_id": ev.ID}).Info("item deleted")
		}
	})
	a.bus.Subscribe(eventbus.EventSubmissionCompleted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SubmissionCompletedEvent); ok {
			a.log.WithFields(logrus.Fields{"screen": ev.Screen, "entity_id": ev.EntityID, "outcome": ev.Outcome}).Info(ev.Message)
		}
	})
}

// newLogger writes to a file so the TUI screen is never corrupted
func newLogger(path string) (*logrus.Logger, io.Closer, error) {
	if path == "" {
		path = defaultLogFile()
	}
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	log.SetOutput(f)
	return log, f, nil
}

// screen resolves a screen name from the loaded catalog
func (a *app) screen(name string) (config.Screen, error) {
	s, err := a.cfg.Screen(name)
	if err != nil {
		return config.Screen{}, err
	}
	return *s, nil
}
