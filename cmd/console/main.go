package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/legalcase-console/api"
	"github.com/jrsteele09/legalcase-console/internal/config"
	"github.com/jrsteele09/legalcase-console/internal/cookiestore"
	"github.com/jrsteele09/legalcase-console/server"
	"github.com/jrsteele09/legalcase-console/sessions"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %s\n", err)
	}

	c := config.New()
	setupLogging(c)

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running console")
	}
	log.Info().Msg("Console stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	displayAppname(c.GetAppName())

	jar, err := cookiestore.New(c.GetCookieStorePath(), c.GetCookieStorePassphrase())
	if err != nil {
		return fmt.Errorf("cookie store: %w", err)
	}

	client, err := api.New(c.GetAPIBaseURL(), c.GetAPIPrefix(), api.WithCookieJar(jar))
	if err != nil {
		return err
	}

	manager, err := sessions.NewManager(client,
		sessions.WithLandingPaths(c.GetLandingPath(), c.GetLoginPath()),
		sessions.WithCookieClearer(jar.Clear),
	)
	if err != nil {
		return err
	}
	manager.Subscribe(client.Bearer().SetToken)

	gate, err := tenants.NewGate(client.Companies(), manager)
	if err != nil {
		return err
	}
	manager.Subscribe(gate.CredentialChanged)

	handler, err := server.New(c, manager, gate, server.Repos{
		Companies:    client.Companies(),
		LegalCases:   client.LegalCases(),
		Calculations: client.Calculations(),
	})
	if err != nil {
		return err
	}

	log.Info().Str("api", c.GetAPIBaseURL()+c.GetAPIPrefix()).Msg("Resuming session")
	manager.RefreshOnStartup(ctx)
	defer gate.Leave()

	srv := &http.Server{Addr: c.GetPort(), Handler: handler}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Console listening on http://%s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
