package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigKey is returned for config keys the CLI does not know.
var ErrUnknownConfigKey = errors.New("unknown configuration key")

// configKeys are the keys 'farm config set' accepts.
var configKeys = []string{"host", "username", "output"}

// Config represents the CLI configuration persisted to disk. Tokens are
// kept in the keyring, never in this file.
type Config struct {
	Host     string `json:"host,omitempty"     yaml:"host,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Output   string `json:"output,omitempty"   yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage farm CLI configuration stored in ~/.farm/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(config)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(config)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")
				_ = table.Append("host", config.Host)
				_ = table.Append("username", config.Username)
				_ = table.Append("output", config.Output)
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  fmt.Sprintf("Set a configuration value. Known keys: %v", configKeys),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if err := setConfigValue(config, args[0], args[1]); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Set %s to '%s'\n", args[0], args[1])
			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Clear a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if err := setConfigValue(config, args[0], ""); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Unset %s\n", args[0])
			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "host":
		config.Host = value
	case "username":
		config.Username = value
	case "output":
		config.Output = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

// configFilePath returns the config file in use, honoring the --config
// flag when set.
func configFilePath() string {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".farm", "config.yml")
	}

	return filepath.Join(home, ".farm", "config.yml")
}

// loadConfig reads the config file, returning an empty config when the
// file does not exist yet.
func loadConfig() *Config {
	config := &Config{}

	data, err := os.ReadFile(configFilePath())
	if err != nil {
		return config
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed config file: %v\n", err)
		return &Config{}
	}

	return config
}

// saveConfig writes the config file with restrictive permissions.
func saveConfig(config *Config) error {
	path := configFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
