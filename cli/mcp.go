package cli

import (
	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/regexgen/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the translation tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open("")
			if err != nil {
				return err
			}
			defer s.Close()

			return mcp.NewServer(s.service, Version, s.logger).ServeStdio()
		},
	}
}
