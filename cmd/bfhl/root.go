package main

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	bfhl "github.com/goliatone/go-bfhl"
	"github.com/goliatone/go-bfhl/internal/config"
	"github.com/goliatone/go-bfhl/internal/logging"
	"github.com/goliatone/go-bfhl/pkg/client"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	envFile    string
	apiURL     string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "bfhl",
		Short: "Submit JSON to a BFHL endpoint and view the filtered response",
		Long: `bfhl validates JSON carrying a "data" array, posts it to the configured
endpoint and shows the response filtered by tag.

Subcommands:
  serve  - serve the form as a web page
  tui    - run the form in the terminal
  opcode - print the endpoint's operation code`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file (ignored when missing)")
	flags.StringVar(&a.apiURL, "api-url", "", "endpoint URL (or set "+config.EnvAPIURL+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(newServeCmd(a), newTUICmd(a), newOpcodeCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{Path: a.configPath, EnvFile: a.envFile})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(a.errOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() (*client.Client, error) {
	if a.cfg == nil {
		return nil, errors.New("bfhl: configuration not loaded")
	}
	endpoint, err := a.cfg.RequireAPIURL()
	if err != nil {
		return nil, err
	}
	return bfhl.NewClient(endpoint,
		client.WithTimeout(a.cfg.RequestTimeout()),
		client.WithLogger(a.logger.With().Str("component", "client").Logger()),
	)
}
