package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <target>",
		Short: "Show the effective configuration of a target",
		Long: `Resolve a target against the global defaults and print the result as
JSON. Referenced authenticators and trust stores are loaded, so a broken
reference fails here the same way it would on first use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := startApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			ec, err := a.targets().Resolve(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ec)
		},
	}
}
