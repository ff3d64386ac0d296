package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bnema/cps-kiosk/internal/adapters/http/ingest"
	"github.com/bnema/cps-kiosk/internal/adapters/present/logsink"
	redispresenter "github.com/bnema/cps-kiosk/internal/adapters/present/redis"
	"github.com/bnema/cps-kiosk/internal/adapters/present/stream"
	"github.com/bnema/cps-kiosk/internal/adapters/present/tui"
	"github.com/bnema/cps-kiosk/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	TUI bool
	// Listener replaces binding the address from the device record.
	Listener net.Listener
	// Ready is called with the ingestion address once every task has been started.
	Ready func(addr string)
}

func newServeCmd(state *cli) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion server and countdown engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, state.app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Render the kiosk display in the terminal")

	return cmd
}

func runServe(ctx context.Context, a *app, opts serveOptions) error {
	settings := a.settings

	if opts.TUI {
		closeLog, err := redirectLog(a)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	device, err := a.deviceID(ctx)
	if err != nil {
		return err
	}
	log := a.log.WithField("device_id", device)

	cfg, created, err := a.repo.Ensure(ctx, device)
	if err != nil {
		return fmt.Errorf("load device config: %w", err)
	}
	if created {
		log.Info("created device record with defaults")
	}

	authority, closeAuthority, err := a.openAuthority(ctx)
	if err != nil {
		return err
	}
	defer closeAuthority()

	hub := stream.NewHub(0, log)
	presenters := []application.NamedPresenter{
		{Name: "log", Presenter: logsink.New(log)},
		{Name: "stream", Presenter: hub},
	}

	if addr := settings.GetString(keyNotifyRedisAddr); addr != "" {
		client, err := redispresenter.Connect(addr)
		if err != nil {
			return fmt.Errorf("connect event bus: %w", err)
		}
		defer func() { _ = client.Close() }()
		presenters = append(presenters, application.NamedPresenter{
			Name:      "redis",
			Presenter: redispresenter.NewPublisher(client, settings.GetString(keyNotifyRedisChannel), device),
		})
	}

	var program *tea.Program
	if opts.TUI {
		program = tui.NewProgram(cfg.UI, cfg.License.Authorized, tea.WithAltScreen())
		presenters = append(presenters, application.NamedPresenter{Name: "tui", Presenter: tui.NewPresenter(program)})
	}

	dispatcher := application.NewDispatcher(settings.GetInt(keyNotifyQueueSize), settings.GetDuration(keyNotifyTimeout), log, presenters...)
	credits := application.NewCreditChannel(settings.GetInt(keyQueueSize), settings.GetDuration(keyEnqueueTimeout), log)
	engine := application.NewCountdownEngine(credits, dispatcher, application.CountdownOptions{
		SecondsPerCredit: uint64(settings.GetUint(keySecondsPerCredit)),
		Tick:             settings.GetDuration(keyTick),
		Logger:           log,
	})

	license := application.NewLicenseService(a.authorizationGate(authority), a.repo, dispatcher, device, log)
	if _, err := license.Load(ctx); err != nil {
		return err
	}

	ingestSvc := application.NewIngestService(credits, dispatcher, a.repo, license, device, application.IngestOptions{
		PairID:         settings.GetString(keyPairID),
		ServerHWID:     settings.GetString(keyServerHWID),
		ServerAddress:  settings.GetString(keyServerAddress),
		RequireLicense: settings.GetBool(keyLicenseRequired),
		Logger:         log,
	})

	gin.SetMode(gin.ReleaseMode)
	router := ingest.NewRouter(&ingest.Handler{
		Ingest:  ingestSvc,
		Session: engine,
		License: license,
		Log:     log,
	}, ingest.RouterOptions{Events: hub.Handler(), Logger: log})

	server := ingest.NewServer(cfg.Server.BindAddress(), router, settings.GetDuration(keyShutdownTimeout), log)
	server.OnShutdown(hub.Close)

	ln := opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", cfg.Server.BindAddress())
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.BindAddress(), err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error { return server.ServeListener(gctx, ln) })
	if program != nil {
		g.Go(func() error {
			defer cancel()
			return runDisplay(gctx, program)
		})
	}

	log.WithFields(logrus.Fields{
		"addr":             ln.Addr().String(),
		"licensed":         license.Authorized(),
		"license_required": settings.GetBool(keyLicenseRequired),
	}).Info("kiosk controller started")
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("kiosk controller stopped")
	return nil
}

// runDisplay runs the terminal display until the operator quits it or ctx ends.
func runDisplay(ctx context.Context, program *tea.Program) error {
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run kiosk display: %w", err)
	}
	return nil
}

// redirectLog moves log output to a file so it does not draw over the terminal display.
func redirectLog(a *app) (func(), error) {
	path := a.settings.GetString(keyLogFile)
	if path == "" {
		dir, err := appConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "serve.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	previous := a.log.Out
	a.log.SetOutput(f)
	return func() {
		a.log.SetOutput(previous)
		_ = f.Close()
	}, nil
}
