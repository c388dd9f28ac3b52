package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/regexgen/translate"
)

func newTranslateCmd(opts *globalOptions) *cobra.Command {
	var (
		direction string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "translate [input|-]",
		Short: "Translate one input and print the result",
		Long: `Translate one input and print the result.

The input is taken from the argument, or from stdin when the argument is "-"
or omitted. The direction accepts either label or its slug:
  "English to Regex" / english-to-regex
  "Regex to English" / regex-to-english

Examples:
  regexgen translate "a US zip code"
  regexgen translate --direction regex-to-english '^\d{5}(-\d{4})?$'
  echo '[A-Z]{3}' | regexgen translate -d regex-to-english --model quality -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			s, err := opts.open("")
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// An unknown direction still goes through the service, which
			// answers with the invalid-selection result.
			d, _ := translate.ParseDirection(direction)
			res, err := s.service.Translate(ctx, input, d, model)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Display())
			return res.Err()
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", translate.EnglishToRegex.Slug(), "Translation direction")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model ID or alias (default: configured default_model)")
	return cmd
}

// readInput returns the single argument, or all of stdin for "-" or no argument.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
