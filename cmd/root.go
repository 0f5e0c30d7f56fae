// Package cmd implements the cigraph command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TFMV/cigraph/config"
	"github.com/TFMV/cigraph/ingest"
	"github.com/TFMV/cigraph/logging"
	"github.com/TFMV/cigraph/models"
)

var version = "0.3.0"

// rootOptions carries the persistent flags to every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cigraph",
		Short: "cigraph - competitive intelligence graph viewer",
		Long: brand.Sprint("cigraph") + " - render and explore company relationship graphs\n" +
			subtle.Sprint("Companies, products, partners, regions and investments on a frozen force-directed layout"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("cigraph {{ .Version }}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		renderCmd(opts),
		serveCmd(opts),
		inspectCmd(opts),
		demoCmd(),
		initCmd(opts),
	)
	return cmd
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), bad.Sprint("cigraph: ")+err.Error())
		return err
	}
	return nil
}

// load reads the config file and builds the logger for a subcommand.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", o.configPath, err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cmd.ErrOrStderr(), level), nil
}

// loadPayload reads path, or falls back to the built-in demo graph when no
// path is configured, and narrows it to company when one is given. The
// second result names the source for messages.
func loadPayload(path, company string) (*models.GraphPayload, string, error) {
	source := path
	payload := ingest.DemoPayload()
	if path == "" {
		source = "built-in demo"
	} else {
		var err error
		if payload, err = ingest.LoadFile(path); err != nil {
			return nil, "", err
		}
	}
	if company != "" {
		source += ", company " + company
	}
	return payload.Subgraph(company), source, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
