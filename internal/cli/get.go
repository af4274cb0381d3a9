package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/httptargets/httpclient"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	var (
		headers []string
		query   []string
		include bool
	)

	cmd := &cobra.Command{
		Use:   "get <target> [path]",
		Short: "Send a GET request to a target",
		Long: `Send a GET request through the client configured for a target and
print the response body. The optional path is appended to the target URL.

Examples:
  httptargets get users
  httptargets get users 42/profile -H 'Accept: application/json'
  httptargets get search -q term=go -i`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := startApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			target, err := a.targets().NewTarget(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				target = target.Path(args[1])
			}
			for _, h := range headers {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q, want 'Name: value'", h)
				}
				target = target.Header(strings.TrimSpace(key), strings.TrimSpace(value))
			}
			for _, q := range query {
				key, value, _ := strings.Cut(q, "=")
				target = target.Query(key, value)
			}

			resp, err := target.Get(ctx)
			if resp != nil {
				writeResponse(cmd, resp, include)
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header 'Name: value' (repeatable)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter 'key=value' (repeatable)")
	cmd.Flags().BoolVarP(&include, "include", "i", false, "Print the status line and response headers")

	return cmd
}

func writeResponse(cmd *cobra.Command, resp *httpclient.Response, include bool) {
	out := cmd.OutOrStdout()
	if include {
		fmt.Fprintf(out, "%d\n", resp.StatusCode)
		_ = resp.Headers.Write(out)
		fmt.Fprintln(out)
	}
	_, _ = out.Write(resp.Body)
	if len(resp.Body) > 0 && resp.Body[len(resp.Body)-1] != '\n' {
		fmt.Fprintln(out)
	}
}
