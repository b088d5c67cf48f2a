package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chemviz/chemviz/internal/api"
	"github.com/chemviz/chemviz/internal/config"
	"github.com/chemviz/chemviz/internal/event"
	"github.com/chemviz/chemviz/internal/logging"
	"github.com/chemviz/chemviz/internal/report"
	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/workflow"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

// openReport opens saved reports and report URLs. Tests replace it.
var openReport report.Opener = report.OpenWithSystem

// services is the object graph shared by every command.
type services struct {
	cfg      *config.Config
	logger   *logging.Logger
	bus      *event.Bus
	store    *session.Store
	client   *api.Client
	launcher *report.Launcher
	ctrl     *workflow.Controller
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newServices wires the client, store and controller for cfg. reportMode
// overrides cfg.Report.Mode when non-empty.
func newServices(cfg *config.Config, reportMode string) (*services, error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	if reportMode == "" {
		reportMode = cfg.Report.Mode
	}

	bus := event.NewBus()
	bus.SetLogger(logger.WithComponent("events"))
	store := session.NewStore(bus)

	client := api.New(cfg.Server.BaseURL,
		api.Credential{Username: cfg.Server.Username, Password: cfg.Server.Password},
		api.WithTimeout(cfg.Server.Timeout),
		api.WithUserAgent("chemviz/"+version),
	)
	launcher := report.NewLauncher(client, reportMode, cfg.Report.ResolveDownloadDir(),
		report.WithOpener(openReport),
		report.WithLogger(logger.WithComponent("report")),
	)
	ctrl := workflow.New(store, client, launcher,
		workflow.WithBus(bus),
		workflow.WithLogger(logger),
		workflow.WithFilePattern(cfg.Upload.Matches),
	)

	return &services{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		store:    store,
		client:   client,
		launcher: launcher,
		ctrl:     ctrl,
	}, nil
}

func (s *services) Close() error {
	return s.logger.Close()
}

func newLogger(lc config.LoggingConfig) (*logging.Logger, error) {
	if !lc.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLoggerWithRotation(lc.ResolveDir(), lc.Level, logging.RotationConfig{
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
