package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"podconsole/internal/config"
	"podconsole/internal/logging"
	"podconsole/internal/podman"
	"podconsole/internal/session"
	"podconsole/internal/telemetry"
	"podconsole/internal/tmux"
	"podconsole/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logFile, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer logFile.Close()

	ctx := context.Background()
	tp, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		logging.Log.WithError(err).Warn("tracing disabled")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logging.Log.WithError(err).Warn("flush traces")
		}
	}()

	conns, errs := podman.Connect(ctx, cfg.SystemSocket, cfg.UserSocket, cfg.ProbeTimeout,
		podman.WithTimeout(cfg.RequestTimeout),
		podman.WithHistoryTTL(cfg.HistoryTTL),
	)
	defer conns.Close()
	for owner, err := range errs {
		logging.Log.WithError(err).WithField("owner", owner).Warn("podman service unavailable")
	}

	var scopes []podman.Owner
	urls := map[podman.Owner]string{}
	for _, s := range []*podman.Service{conns.System, conns.User} {
		if s == nil {
			continue
		}
		scopes = append(scopes, s.Owner())
		urls[s.Owner()] = s.URL()
	}
	if len(scopes) == 0 {
		logging.Log.Warn("no podman service answered")
	}
	logging.Log.WithField("scopes", scopes).Info("podconsole starting")

	app := ui.NewAppModel(ui.Options{
		Client:          conns,
		Scopes:          scopes,
		URLs:            urls,
		User:            cfg.User,
		Preferred:       podman.Owner(cfg.PreferredOwner),
		OwnerFilter:     cfg.OwnerFilter,
		RefreshInterval: cfg.RefreshInterval,
		Timeout:         cfg.RequestTimeout,
		Sessions:        session.New(tmux.ListPaneIDs),
	})
	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
