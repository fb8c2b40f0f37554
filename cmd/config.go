package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codeberry/pulldash/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init  Create a starter config file
  path  Show config file locations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())

	return cmd
}

func runConfigShow(outputFormat string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}
	return nil
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			printPath := func(label, path string) {
				status := "missing"
				if _, err := os.Stat(path); err == nil {
					status = "exists"
				}
				fmt.Printf("  %s: %s (%s)\n", label, path, status)
			}
			fmt.Println("Config files (local overrides global):")
			printPath("global", config.ConfigPath())
			printPath("local", config.LocalConfigPath())
			return nil
		},
	}
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Long: `Create a starter config file with the tracked repositories.

By default the file is created at the global location
(~/.config/pulldash/config.yaml). Use --local to create ./.pulldash.yaml
instead, which applies only in this directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create ./.pulldash.yaml instead of the global config")
	return cmd
}

const starterConfig = `# pulldash configuration
repos:
  - owner/name

# default_time_range: month   # week, month, quarter, all
# default_format: table       # table, json, markdown
# refresh_interval: 60s

# sync:
#   timezone: America/New_York
#   business_hours_start: 9
#   business_hours_end: 18
`

func runConfigInit(local bool) error {
	path := config.ConfigPath()
	if local {
		path = config.LocalConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if !local {
		if err := os.MkdirAll(config.DefaultConfigDir(), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
