package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/pkg/config"
	"github.com/wardrobe-project/wardrobe/pkg/fsutil"
)

const starterConfig = `# wardrobe configuration
#
# Jobs inherit options, filters, source and destination from the job
# they extend. Run one with:  wardrobe run <job>

settings:
  # tool: rdiff-backup
  # lock_dir: wardrobe.lock.d
  # journal: ~/.local/state/wardrobe/journal.jsonl
  # log_level: info
  # webhook_url: https://example.com/hooks/wardrobe

jobs:
  base:
    options:
      preserve-numerical-ids: true
      no-eas: false
      verbosity: 5
    filters:
      - exclude: /proc/*
      - exclude: /sys/*
      - exclude-device-files: true

  # host-a:
  #   extends: base
  #   source: { host: a.example.de, dir: / }
  #   destination: { dir: /var/backup/{hostname} }
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter config file to the config path.

The target honors --config and WARDROBE_CONFIG; an existing file is
never overwritten.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.Path(configFlag)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if _, err := os.Stat(path); err == nil {
			fmtErr("%s already exists, not overwriting", path)
			os.Exit(1)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if err := fsutil.AtomicWrite(path, []byte(starterConfig), 0o644); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved runtime settings",
	Long:  "Show the runtime settings after merging defaults, the config file, the environment and the flags.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()

		secret := "(not set)"
		if settings.WebhookSecret != "" {
			secret = "(set)"
		}
		if jsonOutput {
			outputJSON(map[string]string{
				"config":         settings.Config,
				"lock_dir":       settings.LockDir,
				"journal":        settings.Journal,
				"tool":           settings.Tool,
				"log_level":      settings.LogLevel,
				"log_format":     settings.LogFormat,
				"webhook_url":    settings.WebhookURL,
				"webhook_secret": secret,
			})
			return
		}
		fmt.Printf("Config: %s\n", settings.Config)
		fmt.Printf("Lock dir: %s\n", settings.LockDir)
		fmt.Printf("Journal: %s\n", settings.Journal)
		fmt.Printf("Tool: %s\n", settings.Tool)
		fmt.Printf("Log: %s (%s)\n", settings.LogLevel, settings.LogFormat)
		if settings.WebhookURL == "" {
			fmt.Println("Webhook: (not set)")
		} else {
			fmt.Printf("Webhook: %s, secret %s\n", settings.WebhookURL, secret)
		}
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
