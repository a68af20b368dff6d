package cli

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/pairswap/pairswap/simapp"
)

func newLogger(cmd *cobra.Command, v *viper.Viper) (log.Logger, error) {
	raw := v.GetString(FlagLogLevel)
	if raw == "" {
		raw = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(level)), nil
}

// buildEnv creates an in-memory dex and replays the configured scenario
// into it. Without a scenario the environment holds default genesis only.
func buildEnv(cmd *cobra.Command, v *viper.Viper) (*simapp.Env, []simapp.StepResult, error) {
	logger, err := newLogger(cmd, v)
	if err != nil {
		return nil, nil, err
	}

	env, err := simapp.NewEnv(logger, nil)
	if err != nil {
		return nil, nil, err
	}

	var results []simapp.StepResult
	if path := v.GetString(FlagScenario); path != "" {
		scenario, err := simapp.LoadScenario(path)
		if err != nil {
			return nil, nil, err
		}
		results, err = scenario.Run(env)
		if err != nil {
			return nil, results, err
		}
		logger.Debug("scenario replayed", "path", path, "steps", len(results), "height", env.Ctx.BlockHeight())
	}

	if height := v.GetInt64(FlagHeight); height > 0 {
		env.SetHeight(height)
	}
	return env, results, nil
}

// printOutput writes obj to the command's output in the configured format.
func printOutput(cmd *cobra.Command, v *viper.Viper, obj any) error {
	bz, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if v.GetString(FlagOutput) == OutputYAML {
		if bz, err = yaml.JSONToYAML(bz); err != nil {
			return fmt.Errorf("convert output to yaml: %w", err)
		}
	} else {
		bz = append(bz, '\n')
	}
	_, err = cmd.OutOrStdout().Write(bz)
	return err
}
