package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"ticketdesk/pkg/logging"
	"ticketdesk/pkg/mockapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var addr, secret, logLevel string
	var seed bool
	var tokenTTL time.Duration
	var loginLimit int

	flagSet := pflag.NewFlagSet("ticketdesk-mock", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "localhost:8080", "listen address")
	flagSet.StringVar(&secret, "secret", os.Getenv("TICKETDESK_MOCK_SECRET"), "JWT signing secret (random when empty)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level")
	flagSet.BoolVar(&seed, "seed", true, "start with sample tickets")
	flagSet.DurationVar(&tokenTTL, "token-ttl", time.Hour, "lifetime of issued tokens")
	flagSet.IntVar(&loginLimit, "login-limit", 10, "login attempts per IP per minute")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, err := logging.New(os.Stdout, logLevel)
	if err != nil {
		return err
	}
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn().Msg("no secret configured; tokens will not survive a restart")
	}

	users, err := mockapi.NewUsers(bcrypt.DefaultCost,
		mockapi.Account{Username: "admin", Password: "admin123", Role: mockapi.RoleAdmin},
		mockapi.Account{Username: "user", Password: "user123", Role: mockapi.RoleUser},
	)
	if err != nil {
		return err
	}
	store := mockapi.NewStore(nil)
	if seed {
		mockapi.Seed(store)
	}
	server, err := mockapi.NewServer(store, users, mockapi.Options{
		Secret:     secret,
		TokenTTL:   tokenTTL,
		LoginLimit: loginLimit,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Int("tickets", store.Len()).Msg("mock API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
