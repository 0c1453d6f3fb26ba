package cli

import (
	"fmt"
	"os"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForceFlag bool

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file, .env and environment)",
		RunE:  runConfigShow,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.ConfigPath())
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !configForceFlag {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	fmt.Println(tui.Success("Wrote " + path))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	// Tokens are secrets
	if cfg.YouTube.POToken != "" {
		cfg.YouTube.POToken = "***"
	}
	if cfg.YouTube.VisitorData != "" {
		cfg.YouTube.VisitorData = "***"
	}
	if cfg.Cache.RedisPassword != "" {
		cfg.Cache.RedisPassword = "***"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Failure(err.Error()))
	}
	return nil
}
