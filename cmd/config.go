package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodewee/doc-highlight/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted configuration",
	Long: `Manage settings stored in ~/.doc-highlight/config.yaml.

Environment variables (DOC_HIGHLIGHT_*) and command line flags take precedence
over the file for a single run.

Available commands:
  list  - List all settings
  get   - Get a specific setting
  set   - Set and save a specific setting

Examples:
  doc-highlight config list
  doc-highlight config get ocr_languages
  doc-highlight config set ocr_languages eng+deu
  doc-highlight config set highlight_color "#00AA00"
  doc-highlight config set soffice_path /opt/libreoffice/program/soffice`,
}

// listConfig lists every persisted setting
func listConfig() {
	fmt.Println("🛠️  Configuration")
	fmt.Println("=================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Error loading configuration: %v\n", err)
		return
	}

	configPath, _ := config.GetConfigFilePath()
	fmt.Printf("📁 Config file: %s\n\n", configPath)

	for _, key := range config.ListConfigKeys() {
		value, _ := cfg.Get(key)
		fmt.Printf("  %-20s = %s\n", key, getDisplayValue(value))
	}

	fmt.Println("\n💡 Tip: Use 'doc-highlight config set <key> <value>' to change a setting")
}

// getConfig gets a specific configuration value
func getConfig(key string) {
	value, err := config.GetConfigValue(key)
	if err != nil {
		fmt.Printf("❌ Error getting config value '%s': %v\n", key, err)
		fmt.Printf("💡 Available keys: %v\n", config.ListConfigKeys())
		return
	}

	fmt.Printf("📝 %s = %s\n", key, getDisplayValue(value))
}

// setConfig sets a specific configuration value
func setConfig(key, value string) {
	if err := config.SetConfigValue(key, value); err != nil {
		fmt.Printf("❌ Error setting config value '%s': %v\n", key, err)
		return
	}

	fmt.Printf("✅ Successfully set %s = %s\n", key, value)
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listConfig()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		getConfig(args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set and save a specific setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setConfig(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
