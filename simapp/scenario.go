package simapp

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/pairswap/pairswap/x/dex/types"
)

// Scenario operations
const (
	OpCreatePair      = "create_pair"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwapExactIn     = "swap_exact_in"
	OpSwapExactOut    = "swap_exact_out"
	OpCreateBootstrap = "create_bootstrap"
	OpContribute      = "contribute"
	OpEndBootstrap    = "end_bootstrap"
	OpClaim           = "claim"
	OpCancelBootstrap = "cancel_bootstrap"
	OpRefund          = "refund"
	OpSetHeight       = "set_height"
	OpSetFeeReceiver  = "set_fee_receiver"
)

// Scenario is a scripted sequence of dex operations.
type Scenario struct {
	// Params, when present, overrides the default parameters field by field.
	Params *types.Params `mapstructure:"-"`
	Funds  []Funding     `mapstructure:"funds"`
	Steps  []Step        `mapstructure:"steps"`
}

// Funding mints an asset to a named account before the steps run.
type Funding struct {
	Account string `mapstructure:"account"`
	Asset   string `mapstructure:"asset"`
	Amount  string `mapstructure:"amount"`
}

// Step is one operation. Assets holds the pair (or the swap path) and
// Amounts the operation's amounts in the order the operation takes them:
//
//	add_liquidity:    desiredA, desiredB, minA, minB
//	remove_liquidity: liquidity, minA, minB
//	swap_exact_in:    amountIn, minOut
//	swap_exact_out:   amountOut, maxIn
//	create_bootstrap: targetA, targetB, minA, minB
//	contribute:       amountA, amountB
type Step struct {
	Op          string   `mapstructure:"op"`
	Account     string   `mapstructure:"account"`
	Recipient   string   `mapstructure:"recipient"`
	Assets      []string `mapstructure:"assets"`
	Amounts     []string `mapstructure:"amounts"`
	Height      any      `mapstructure:"height"`
	ExpectError string   `mapstructure:"expect_error"`
}

// StepResult reports the outcome of one step.
type StepResult struct {
	Index  int
	Op     string
	Output string
	Err    error
}

// LoadScenario reads a scenario from a YAML, JSON or TOML file.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if v.IsSet("params") {
		params := types.DefaultParams()
		if err := v.UnmarshalKey("params", &params); err != nil {
			return nil, fmt.Errorf("decode scenario params %s: %w", path, err)
		}
		s.Params = &params
	}
	return &s, nil
}

// Run applies the scenario's funding and steps to env. It stops at the
// first step whose outcome differs from its expectation.
func (s *Scenario) Run(env *Env) ([]StepResult, error) {
	if s.Params != nil {
		if err := env.Keeper.SetParams(env.Ctx, env.Authority, *s.Params); err != nil {
			return nil, fmt.Errorf("set params: %w", err)
		}
	}

	for i, f := range s.Funds {
		asset, err := types.ParseAssetId(f.Asset)
		if err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
		if err := env.Fund(AccountFor(f.Account), asset, amount); err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
	}

	results := make([]StepResult, 0, len(s.Steps))
	for i, step := range s.Steps {
		output, err := step.apply(env)
		results = append(results, StepResult{Index: i, Op: step.Op, Output: output, Err: err})

		switch {
		case step.ExpectError == "" && err != nil:
			return results, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		case step.ExpectError != "" && err == nil:
			return results, fmt.Errorf("step %d (%s): expected error %q", i, step.Op, step.ExpectError)
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			return results, fmt.Errorf("step %d (%s): expected error %q, got %w", i, step.Op, step.ExpectError, err)
		}
	}
	return results, nil
}

func (step Step) apply(env *Env) (string, error) {
	k, ctx := env.Keeper, env.Ctx
	who := AccountFor(step.Account)
	recipient := who
	if step.Recipient != "" {
		recipient = AccountFor(step.Recipient)
	}

	switch step.Op {
	case OpSetHeight:
		height, err := cast.ToInt64E(step.Height)
		if err != nil {
			return "", fmt.Errorf("height: %w", err)
		}
		env.SetHeight(height)
		return fmt.Sprintf("height %d", height), nil

	case OpSetFeeReceiver:
		receiver := ""
		if step.Recipient != "" {
			receiver = recipient.String()
		}
		return receiver, k.SetFeeReceiver(ctx, env.Authority, receiver)

	case OpSwapExactIn, OpSwapExactOut:
		path, err := parseAssets(step.Assets, 2, 0)
		if err != nil {
			return "", err
		}
		amounts, err := parseAmounts(step.Amounts, 2)
		if err != nil {
			return "", err
		}
		var realized []math.Int
		if step.Op == OpSwapExactIn {
			realized, err = k.SwapExactAssetsForAssets(ctx, who, amounts[0], amounts[1], path, recipient)
		} else {
			realized, err = k.SwapAssetsForExactAssets(ctx, who, amounts[0], amounts[1], path, recipient)
		}
		return formatAmounts(realized), err
	}

	assets, err := parseAssets(step.Assets, 2, 2)
	if err != nil {
		return "", err
	}
	a, b := assets[0], assets[1]

	switch step.Op {
	case OpCreatePair:
		return "", k.CreatePair(ctx, env.Authority, a, b)

	case OpAddLiquidity:
		amounts, err := parseAmounts(step.Amounts, 4)
		if err != nil {
			return "", err
		}
		liquidity, err := k.AddLiquidity(ctx, who, a, b, amounts[0], amounts[1], amounts[2], amounts[3])
		return liquidity.String(), err

	case OpRemoveLiquidity:
		amounts, err := parseAmounts(step.Amounts, 3)
		if err != nil {
			return "", err
		}
		outA, outB, err := k.RemoveLiquidity(ctx, who, a, b, amounts[0], amounts[1], amounts[2], recipient)
		return formatAmounts([]math.Int{outA, outB}), err

	case OpCreateBootstrap:
		amounts, err := parseAmounts(step.Amounts, 4)
		if err != nil {
			return "", err
		}
		end, err := cast.ToInt64E(step.Height)
		if err != nil {
			return "", fmt.Errorf("end block: %w", err)
		}
		return "", k.CreateBootstrap(ctx, env.Authority, a, b, amounts[0], amounts[1], amounts[2], amounts[3], end)

	case OpContribute:
		amounts, err := parseAmounts(step.Amounts, 2)
		if err != nil {
			return "", err
		}
		return "", k.BootstrapContribute(ctx, who, a, b, amounts[0], amounts[1])

	case OpEndBootstrap:
		return "", k.EndBootstrap(ctx, a, b)

	case OpClaim:
		liquidity, err := k.BootstrapClaim(ctx, who, a, b, recipient)
		return liquidity.String(), err

	case OpCancelBootstrap:
		return "", k.CancelBootstrap(ctx, env.Authority, a, b)

	case OpRefund:
		return "", k.BootstrapRefund(ctx, who, a, b)

	default:
		return "", fmt.Errorf("unknown operation %q", step.Op)
	}
}

func parseAssets(raw []string, minLen, maxLen int) ([]types.AssetId, error) {
	if len(raw) < minLen || (maxLen > 0 && len(raw) > maxLen) {
		return nil, fmt.Errorf("expected between %d and %d assets, got %d", minLen, maxLen, len(raw))
	}
	assets := make([]types.AssetId, len(raw))
	for i, s := range raw {
		asset, err := types.ParseAssetId(s)
		if err != nil {
			return nil, err
		}
		assets[i] = asset
	}
	return assets, nil
}

func parseAmounts(raw []string, n int) ([]math.Int, error) {
	if len(raw) != n {
		return nil, fmt.Errorf("expected %d amounts, got %d", n, len(raw))
	}
	amounts := make([]math.Int, n)
	for i, s := range raw {
		amount, err := parseAmount(s)
		if err != nil {
			return nil, err
		}
		amounts[i] = amount
	}
	return amounts, nil
}

func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(strings.TrimSpace(s))
	if !ok {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func formatAmounts(amounts []math.Int) string {
	parts := make([]string, len(amounts))
	for i, amount := range amounts {
		parts[i] = amount.String()
	}
	return strings.Join(parts, ",")
}

