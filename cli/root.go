// Package cli implements the regexgen command line.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/regexgen/client"
	"github.com/aschepis/backscratcher/regexgen/config"
	rglogger "github.com/aschepis/backscratcher/regexgen/logger"
	"github.com/aschepis/backscratcher/regexgen/runtime"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

var (
	Version = "dev"
	Commit  = "none"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logFile    string
	pretty     bool
	daemon     string
}

// session is what a command needs to talk to the translation service.
type session struct {
	cfg     *config.Config
	service ui.TranslationService
	logger  zerolog.Logger
	close   func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:     "regexgen",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Short:   "Translate between English and regular expressions",
		Long: `regexgen turns English descriptions into regular expressions and explains
regular expressions in English using a language model.

Without a subcommand the terminal UI starts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logFile != "" && opts.pretty {
				return fmt.Errorf("--logfile and --pretty are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: $REGEXGEN_CONFIG_PATH or ~/.regexgen/config.yaml)")
	flags.StringVar(&opts.logFile, "logfile", "", "Path to log file. If not set, logs to stderr")
	flags.BoolVar(&opts.pretty, "pretty", false, "Use pretty console output (only valid when logfile is not set)")
	flags.StringVar(&opts.daemon, "daemon", "", "Use the regexgend daemon at this address (socket path or host:port) instead of translating in-process")

	root.AddCommand(
		newTUICmd(opts),
		newTranslateCmd(opts),
		newModelsCmd(opts),
		newFlagsCmd(opts),
		newMCPCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *globalOptions) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.GetConfigPath()
}

// initLogger sets up logging. fallbackFile is used when neither --logfile nor
// --pretty is given, so full-screen commands keep logs off the terminal.
func (o *globalOptions) initLogger(fallbackFile string) (zerolog.Logger, error) {
	logFile := o.logFile
	if logFile == "" && !o.pretty {
		logFile = fallbackFile
	}
	logger, err := rglogger.InitWithOptions(logFile, o.pretty)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// open loads configuration and connects to a translation service, either
// in-process or through the daemon.
func (o *globalOptions) open(fallbackLogFile string) (*session, error) {
	logger, err := o.initLogger(fallbackLogFile)
	if err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Err(err).Msg("Ignoring .env file")
	}
	cfg, err := config.Load(o.resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if o.daemon != "" {
		grpcClient, err := client.Connect(o.daemon)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("address", o.daemon).Msg("Using regexgend daemon")
		return &session{
			cfg:     cfg,
			service: client.NewServiceAdapter(grpcClient, cfg.CompletionTimeoutDuration()),
			logger:  logger,
			close:   grpcClient.Close,
		}, nil
	}

	app, err := runtime.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		service: app.Service,
		logger:  logger,
		close:   app.Close,
	}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close translation service")
	}
}

// formatTime renders timestamps in listings.
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
