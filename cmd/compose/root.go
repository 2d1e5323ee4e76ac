package main

import (
	"fmt"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-compose/pkg/compose"
)

// configSearchPath is looked up in the XDG config directories when --config
// is not given.
const configSearchPath = "compose/config.yaml"

// app carries state shared by every subcommand.
type app struct {
	verbosity  int
	configPath string
	config     *compose.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "compose",
		Short: "Generate styled DOCX documents from content plans",
		Long: `compose turns a YAML or TOML content plan into a Word document.

Plans list headings, paragraphs, lists, tables, rules and page breaks in
order. Tables can be loaded from spreadsheet sheets. Look and feel come
from a config file (--config, or compose/config.yaml in the XDG config
directories) overlaid with COMPOSE_* environment variables.`,
		Version: compose.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			compose.SetupLogger(nil, a.logLevel())
			logger := compose.GetLogger("cli")
			logger.Debug().
				Str("command", cmd.Name()).
				Str("config", a.configPath).
				Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v DEBUG, -vv TRACE)")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/"+configSearchPath+")")

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) loadConfig() error {
	if a.configPath == "" {
		if found, err := xdg.SearchConfigFile(configSearchPath); err == nil {
			a.configPath = found
		}
	}

	var err error
	if a.configPath != "" {
		a.config, err = compose.LoadConfig(a.configPath)
	} else {
		a.config, err = compose.ConfigFromEnvironment()
	}
	return err
}

// logLevel applies the -v flags on top of the configured level.
func (a *app) logLevel() string {
	switch {
	case a.verbosity >= 2:
		return "trace"
	case a.verbosity == 1:
		return "debug"
	}
	return a.config.LogLevel
}
