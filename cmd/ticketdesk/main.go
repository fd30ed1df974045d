package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"ticketdesk/pkg/config"
	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/logging"
	"ticketdesk/pkg/session"
	"ticketdesk/pkg/store"
	"ticketdesk/pkg/ui"
	"ticketdesk/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, apiURL, logFile string
	var showVersion bool

	flagSet := pflag.NewFlagSet("ticketdesk", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: $"+config.EnvConfig+")")
	flagSet.StringVar(&apiURL, "api-url", "", "base URL of the ticket API, e.g. http://localhost:8080/api")
	flagSet.StringVar(&logFile, "log-file", "", "write logs to this file instead of the configured one")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("ticketdesk %s\n", version.Version)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("ticketdesk needs an interactive terminal")
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info().Str("version", version.Version).Str("api_url", cfg.APIURL).Msg("starting")

	sess := session.NewStore()
	client, err := gateway.New(cfg.APIURL,
		gateway.WithHTTPClient(&http.Client{
			Transport: gateway.NewTransport(sess, nil),
			Timeout:   cfg.Timeout.Std(),
		}),
		gateway.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	app := ui.NewApp(ui.AppConfig{
		Gateway:   client,
		Auth:      client,
		Session:   sess,
		Tickets:   store.NewTickets(),
		Presets:   cfg.Presets,
		PageSizes: cfg.PageSizeCycle(),
		Logger:    logger,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		return err
	}
	logger.Info().Msg("bye")
	return nil
}

// openLogger opens the configured log file. An empty path disables logging.
func openLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger, err := logging.New(io.Writer(f), cfg.LogLevel)
	if err != nil {
		f.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, func() { f.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ticketdesk - a terminal client for the ticket API.

Sign in, then browse, filter, create, edit and delete tickets.

Usage:
  ticketdesk [flags]

Examples:
  # Use the API on localhost
  ticketdesk

  # Point at another server
  ticketdesk --api-url https://tickets.example.com/api

Flags:
`)
	flagSet.PrintDefaults()
}
