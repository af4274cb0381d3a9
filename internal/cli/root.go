// Package cli implements the httptargets command line.
package cli

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile   string
	envFile      string
	logLevel     string
	otlpEndpoint string
	userAgent    string
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{userAgent: readBuildInfo(version).userAgent()}

	cmd := &cobra.Command{
		Use:   "httptargets",
		Short: "Inspect and call configured HTTP targets",
		Long: `httptargets loads the httpclient section of a service configuration
and lets you list the named targets, show how a target resolves against the
global defaults, and send requests through the fully configured client.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config file (default: ./config.yml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to .env file (default: ./.env)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error, disabled)")
	cmd.PersistentFlags().StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "Export traces and metrics to this OTLP HTTP endpoint (host:port)")

	cmd.AddCommand(
		newTargetsCmd(opts),
		newResolveCmd(opts),
		newGetCmd(opts),
		newVersionCmd(version),
	)

	return cmd
}
