package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

const marketScenario = `
funds:
  - {account: alice, asset: 0/0/1, amount: "1000"}
  - {account: alice, asset: 0/1/2, amount: "1000"}
  - {account: trader, asset: 0/0/1, amount: "100"}
steps:
  - {op: create_pair, assets: [0/0/1, 0/1/2]}
  - {op: add_liquidity, account: alice, assets: [0/0/1, 0/1/2], amounts: ["1000", "1000", "0", "0"]}
  - {op: swap_exact_in, account: trader, assets: [0/0/1, 0/1/2], amounts: ["100", "90"]}
`

func setFlag(tb testing.TB, flagSet *pflag.FlagSet, name, value string) {
	tb.Helper()
	require.NoError(tb, flagSet.Set(name, value))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the dex command tree with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := GetQueryCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append(args, "--"+FlagLogLevel, "disabled"))
	err := cmd.Execute()
	return out.String(), err
}

func TestFlagConstants(t *testing.T) {
	t.Parallel()

	require.Equal(t, "config", FlagConfig)
	require.Equal(t, "output", FlagOutput)
	require.Equal(t, "log-level", FlagLogLevel)
	require.Equal(t, "scenario", FlagScenario)
	require.Equal(t, "height", FlagHeight)
	require.Equal(t, "export", FlagExport)
	require.Equal(t, "metrics-addr", FlagMetricsAddr)
	require.Equal(t, "limit", FlagLimit)
	require.Equal(t, "offset", FlagOffset)
}

func TestCommandStructure(t *testing.T) {
	t.Parallel()

	cmd := GetQueryCmd()
	require.Equal(t, types.ModuleName, cmd.Use)
	require.NotNil(t, cmd.PersistentFlags().Lookup(FlagOutput))

	want := []string{"params", "pair-account", "pair", "pairs", "quote", "estimate-lp", "simulate"}
	var got []string
	for _, sub := range cmd.Commands() {
		got = append(got, sub.Name())
	}
	require.ElementsMatch(t, want, got)

	for _, sub := range cmd.Commands() {
		if sub.Name() == "pair-account" || sub.Name() == "quote" {
			continue
		}
		require.NotNil(t, sub.Flags().Lookup(FlagHeight), sub.Name())
	}
}

func TestPairAccountCmd(t *testing.T) {
	out, err := execute(t, "pair-account", "0/1/2", "asset/0/0/1")
	require.NoError(t, err)

	var res PairAccountOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "0/0/1", res.Asset0)
	require.Equal(t, "0/1/2", res.Asset1)

	a := types.NewAssetId(0, types.AssetTypeNative, 1)
	b := types.NewAssetId(0, types.AssetTypeLocal, 2)
	account, err := keeper.PairAccount(a, b)
	require.NoError(t, err)
	require.Equal(t, account.String(), res.Account)
	require.Equal(t, types.MustNewPair(a, b).LiquidityAsset().Denom(), res.LiquidityDenom)

	swapped, err := execute(t, "pair-account", "0/0/1", "0/1/2")
	require.NoError(t, err)
	require.Equal(t, out, swapped)
}

func TestPairAccountCmd_Errors(t *testing.T) {
	_, err := execute(t, "pair-account", "0/0/1", "0/0/1")
	require.ErrorIs(t, err, types.ErrIdenticalAssets)

	_, err = execute(t, "pair-account", "0/0/1", "x")
	require.ErrorIs(t, err, types.ErrInvalidAsset)

	_, err = execute(t, "pair-account", "0/0/1")
	require.Error(t, err)
}

func TestParamsCmd_Output(t *testing.T) {
	out, err := execute(t, "params")
	require.NoError(t, err)
	var res types.QueryParamsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, types.DefaultParams(), res.Params)

	out, err = execute(t, "params", "-o", OutputYAML)
	require.NoError(t, err)
	require.Contains(t, out, "max_path_length: 6")

	_, err = execute(t, "params", "-o", "xml")
	require.ErrorContains(t, err, "unknown output format")
}

func TestParamsCmd_EnvAndConfig(t *testing.T) {
	t.Setenv(EnvPrefix+"_OUTPUT", OutputYAML)
	out, err := execute(t, "params")
	require.NoError(t, err)
	require.Contains(t, out, "fee_point: 5")

	// the flag wins over the environment
	out, err = execute(t, "params", "-o", OutputJSON)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(out)))

	config := writeFile(t, "config.yaml", "output: json\n")
	_, err = execute(t, "params", "--"+FlagConfig, config)
	require.NoError(t, err)

	_, err = execute(t, "params", "--"+FlagConfig, filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestQuoteCmds(t *testing.T) {
	scenario := writeFile(t, "market.yaml", marketScenario)

	out, err := execute(t, "quote", "out", "100", "0/0/1,0/1/2", "--"+FlagScenario, scenario)
	require.NoError(t, err)
	var res types.QueryAmountsByPathResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Amounts, 2)
	require.Equal(t, math.NewInt(100), res.Amounts[0])
	// reserves after the scripted swap are 1100/910
	want := types.GetAmountOut(math.NewInt(100), math.NewInt(1100), math.NewInt(910), types.DefaultParams().ExchangeFee)
	require.Equal(t, want, res.Amounts[1])

	out, err = execute(t, "quote", "in", "50", "0/1/2,0/0/1", "--"+FlagScenario, scenario)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, math.NewInt(50), res.Amounts[1])

	_, err = execute(t, "quote", "out", "ten", "0/0/1,0/1/2")
	require.ErrorContains(t, err, "invalid amount")

	// without a scenario there is no pair to route through
	_, err = execute(t, "quote", "out", "100", "0/0/1,0/1/2")
	require.Error(t, err)
}

func TestPairAndPairsCmds(t *testing.T) {
	scenario := writeFile(t, "market.yaml", marketScenario)

	out, err := execute(t, "pair", "0/1/2", "0/0/1", "--"+FlagScenario, scenario)
	require.NoError(t, err)
	var pair map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &pair))
	require.Equal(t, "1100", pair["reserve_0"])
	require.Equal(t, "910", pair["reserve_1"])

	out, err = execute(t, "pairs", "--"+FlagScenario, scenario, "--"+FlagLimit, "1")
	require.NoError(t, err)
	var pairs map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &pairs))
	require.Len(t, pairs["pairs"], 1)
}

func TestEstimateLpCmd(t *testing.T) {
	scenario := writeFile(t, "bootstrap.yaml", `
steps:
  - {op: create_bootstrap, assets: [0/0/1, 0/1/2], amounts: ["1000", "500", "0", "0"], height: 10}
`)
	out, err := execute(t, "estimate-lp", "0/0/1", "0/1/2", "100", "50", "--"+FlagScenario, scenario)
	require.NoError(t, err)
	var res types.QueryEstimateLpResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, math.NewInt(200), res.Liquidity)

	_, err = execute(t, "estimate-lp", "0/0/1", "0/1/2", "100", "-", "--"+FlagScenario, scenario)
	require.ErrorContains(t, err, "invalid amount")

	_, err = execute(t, "estimate-lp", "0/0/1", "0/1/2", "100", "50")
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
}

func TestSimulateCmd(t *testing.T) {
	scenario := writeFile(t, "market.yaml", marketScenario)

	out, err := execute(t, "simulate", scenario, "--"+FlagExport, "--"+FlagHeight, "12")
	require.NoError(t, err)

	var res struct {
		Height  int64          `json:"height"`
		Steps   []StepOutput   `json:"steps"`
		Pairs   []any          `json:"pairs"`
		Genesis map[string]any `json:"genesis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, int64(12), res.Height)
	require.Len(t, res.Steps, 3)
	require.Equal(t, StepOutput{Index: 2, Op: "swap_exact_in", Output: "100,90"}, res.Steps[2])
	require.Len(t, res.Pairs, 1)
	require.NotNil(t, res.Genesis)

	yamlOut, err := execute(t, "simulate", scenario, "-o", OutputYAML)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut), &generic))
	require.NotContains(t, generic, "genesis")
}

func TestSimulateCmd_FailingScenario(t *testing.T) {
	scenario := writeFile(t, "broken.yaml", `
steps:
  - {op: add_liquidity, account: alice, assets: [0/0/1, 0/1/2], amounts: ["1", "1", "0", "0"]}
`)
	_, err := execute(t, "simulate", scenario)
	require.ErrorIs(t, err, types.ErrPairNotExists)
	require.ErrorContains(t, err, "step 0 (add_liquidity)")
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	AddGlobalFlags(cmd)
	require.NoError(t, cmd.ParseFlags(nil))
	setFlag(t, cmd.Flags(), FlagLogLevel, "loud")

	v, err := loadConfig(cmd)
	require.NoError(t, err)
	_, err = newLogger(cmd, v)
	require.ErrorContains(t, err, "invalid log level")

	setFlag(t, cmd.Flags(), FlagLogLevel, "warn")
	_, err = newLogger(cmd, v)
	require.NoError(t, err)
}
