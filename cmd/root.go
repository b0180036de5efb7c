package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agentic-research/jsxprops/internal/config"
	"github.com/agentic-research/jsxprops/internal/props"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries what PersistentPreRunE loads into the subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func (a *app) extractor() *props.Extractor {
	return props.NewExtractor(props.WithLogger(a.logger))
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "jsxprops",
		Short: "Extract the props of JSX elements as data and callable functions",
		Long: `jsxprops parses a JSX snippet, takes its first top-level element and
materializes each attribute: literals become values, object and array
literals become maps and lists, and function literals are rebuilt into
functions you can call.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
			if cfg.File != "" {
				a.logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./jsxprops.yaml)")
	pf.String("log-level", "info", "log level (debug|info|warn|error)")
	pf.String("log-format", "text", "log format (text|json)")

	root.AddCommand(
		newExtractCmd(a),
		newBuildCmd(a),
		newQueryCmd(a),
		newCallCmd(a),
		newMCPCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
