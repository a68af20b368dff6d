package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides of every flag, e.g.
// PAIRSWAP_SCENARIO or PAIRSWAP_LOG_LEVEL.
const EnvPrefix = "PAIRSWAP"

// Flag constants for dex CLI commands
const (
	// Global flags
	FlagConfig   = "config"
	FlagOutput   = "output"
	FlagLogLevel = "log-level"

	// State flags
	FlagScenario = "scenario"
	FlagHeight   = "height"

	// Simulation flags
	FlagExport      = "export"
	FlagMetricsAddr = "metrics-addr"

	// Pagination flags
	FlagLimit  = "limit"
	FlagOffset = "offset"
)

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// AddGlobalFlags registers the flags shared by every dex command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagConfig, "", "Config file (yaml, json or toml) supplying flag defaults")
	cmd.PersistentFlags().StringP(FlagOutput, "o", OutputJSON, "Output format (json|yaml)")
	cmd.PersistentFlags().String(FlagLogLevel, "info", "Log level (trace|debug|info|warn|error|disabled)")
}

// AddStateFlags registers the flags that build the state a command reads.
func AddStateFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagScenario, "", "Scenario file to replay before running the command")
	cmd.Flags().Int64(FlagHeight, 0, "Block height to query at after the scenario ran (0 keeps the scenario height)")
}

// loadConfig binds the command's flags to a fresh viper instance. Values are
// resolved as flag, then PAIRSWAP_* environment variable, then config file.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	switch out := v.GetString(FlagOutput); out {
	case "", OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", out)
	}
	return v, nil
}
