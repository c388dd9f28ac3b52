package cli

import (
	"github.com/spf13/cobra"

	rglogger "github.com/aschepis/backscratcher/regexgen/logger"
	"github.com/aschepis/backscratcher/regexgen/ui/tui"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
}

func runTUI(opts *globalOptions) error {
	s, err := opts.open(rglogger.DefaultLogFile)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info().Msg("Starting terminal UI")
	app := tui.NewApp(s.logger, s.service, s.cfg.Theme)
	if err := app.Run(); err != nil {
		s.logger.Error().Err(err).Msg("Error running application")
		return err
	}
	s.logger.Info().Msg("Application shutdown")
	return nil
}
