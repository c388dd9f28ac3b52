package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/regexgen/flags"
)

func newModelsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available for translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open("")
			if err != nil {
				return err
			}
			defer s.Close()

			options, err := s.service.Options(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "\tID\tLABEL\tPROVIDER\tALIASES")
			for _, m := range options.Models {
				marker := ""
				if m.ID == options.DefaultModel || lo.Contains(m.Aliases, options.DefaultModel) {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, m.ID, m.Label, m.Provider, strings.Join(m.Aliases, ","))
			}
			return w.Flush()
		},
	}
}

func newFlagsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Work with flagged translations",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List flagged translations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open("")
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.service.ListFlags(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No flagged translations.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CREATED\tDIRECTION\tMODEL\tINPUT\tOUTPUT\tREASON")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					formatTime(e.CreatedAt), e.Direction, e.Model, cell(e.Input), cell(e.Output), cell(e.Reason))
			}
			return w.Flush()
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", flags.DefaultListLimit, "Maximum number of entries")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one flagged translation in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open("")
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.service.GetFlag(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "ID:        %s\n", e.ID)
			_, _ = fmt.Fprintf(out, "Created:   %s\n", formatTime(e.CreatedAt))
			_, _ = fmt.Fprintf(out, "Direction: %s\n", e.Direction)
			_, _ = fmt.Fprintf(out, "Model:     %s\n", e.Model)
			if e.Reason != "" {
				_, _ = fmt.Fprintf(out, "Reason:    %s\n", e.Reason)
			}
			_, _ = fmt.Fprintf(out, "\nInput:\n%s\n\nOutput:\n%s\n", e.Input, e.Output)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

// cell flattens and shortens text for a table column.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
