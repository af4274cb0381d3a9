package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTargetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List configured targets",
		Long: `List every named target with its base URL and the authenticator and
trust store names it references. Empty columns inherit the global setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := startApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tURL\tAUTH\tTRUST STORE")
			for _, name := range a.targets().Targets() {
				t := a.cfg.HTTPClient.Targets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, t.URL, t.Auth, t.TrustStore)
			}
			return w.Flush()
		},
	}
}
