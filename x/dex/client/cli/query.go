package cli

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/spf13/cobra"

	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

// GetQueryCmd returns the dex operator commands. Every command runs against
// an in-memory dex, optionally seeded by replaying a scenario file.
func GetQueryCmd() *cobra.Command {
	dexCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Pair, quote and scenario commands for the dex module",
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	AddGlobalFlags(dexCmd)

	dexCmd.AddCommand(Commands()...)
	return dexCmd
}

// Commands returns fresh instances of every dex command.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		GetCmdQueryParams(),
		GetCmdPairAccount(),
		GetCmdQueryPair(),
		GetCmdQueryPairs(),
		GetCmdQuote(),
		GetCmdEstimateLp(),
		GetCmdSimulate(),
	}
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the dex module parameters",
		Long: `Query the dex parameters: exchange fee, protocol fee receiver, fee point
and maximum path length. Without --scenario the defaults are shown.

Example:
  $ pairswap dex params
  $ pairswap dex params --scenario fee-on.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			env, _, err := buildEnv(cmd, v)
			if err != nil {
				return err
			}

			res, err := keeper.NewQuerier(*env.Keeper).Params(env.Ctx, &types.QueryParamsRequest{})
			if err != nil {
				return err
			}
			return printOutput(cmd, v, res)
		},
	}

	AddStateFlags(cmd)
	return cmd
}

// PairAccountOutput describes the derived identities of a pair.
type PairAccountOutput struct {
	Asset0         string `json:"asset_0"`
	Asset1         string `json:"asset_1"`
	PairKey        string `json:"pair_key"`
	Account        string `json:"account"`
	LiquidityAsset string `json:"liquidity_asset"`
	LiquidityDenom string `json:"liquidity_denom"`
}

// GetCmdPairAccount returns the command deriving a pair's settlement account
func GetCmdPairAccount() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair-account [asset-a] [asset-b]",
		Short: "Derive the settlement account and LP asset of a pair",
		Long: `Derive the canonical pair, its settlement account and its LP asset.
The result does not depend on the order of the assets.

Example:
  $ pairswap dex pair-account 0/0/1 0/1/2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pair, err := parsePairArgs(args[0], args[1])
			if err != nil {
				return err
			}

			account, err := keeper.PairAccount(pair.Asset0, pair.Asset1)
			if err != nil {
				return err
			}

			lp := pair.LiquidityAsset()
			return printOutput(cmd, v, PairAccountOutput{
				Asset0:         pair.Asset0.String(),
				Asset1:         pair.Asset1.String(),
				PairKey:        fmt.Sprintf("%X", pair.Key()),
				Account:        account.String(),
				LiquidityAsset: lp.String(),
				LiquidityDenom: lp.Denom(),
			})
		},
	}

	return cmd
}

// GetCmdQueryPair returns the command to query one pair
func GetCmdQueryPair() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair [asset-a] [asset-b]",
		Short: "Query the status, reserves and fee watermark of a pair",
		Long: `Query a pair after replaying a scenario.

Example:
  $ pairswap dex pair 0/0/1 0/1/2 --scenario market.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			env, _, err := buildEnv(cmd, v)
			if err != nil {
				return err
			}

			res, err := keeper.NewQuerier(*env.Keeper).Pair(env.Ctx, &types.QueryPairRequest{
				AssetA: args[0],
				AssetB: args[1],
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, v, res)
		},
	}

	AddStateFlags(cmd)
	return cmd
}

// GetCmdQueryPairs returns the command to list pairs
func GetCmdQueryPairs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List registered pairs",
		Long: `List registered pairs with pagination support.

Example:
  $ pairswap dex pairs --scenario market.yaml
  $ pairswap dex pairs --scenario market.yaml --limit 10 --offset 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			env, _, err := buildEnv(cmd, v)
			if err != nil {
				return err
			}

			res, err := keeper.NewQuerier(*env.Keeper).Pairs(env.Ctx, &types.QueryPairsRequest{
				Pagination: &query.PageRequest{
					Limit:  v.GetUint64(FlagLimit),
					Offset: v.GetUint64(FlagOffset),
				},
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, v, res)
		},
	}

	AddStateFlags(cmd)
	cmd.Flags().Uint64(FlagLimit, 0, "Maximum number of pairs to return (0 uses the default page size)")
	cmd.Flags().Uint64(FlagOffset, 0, "Number of pairs to skip")
	return cmd
}

// GetCmdQuote returns the swap quote commands
func GetCmdQuote() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "quote",
		Short:                      "Price a swap along a path",
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		newQuoteCmd("out", "Quote the amounts received for an exact input", keeper.Querier.AmountOutByPath),
		newQuoteCmd("in", "Quote the amounts required for an exact output", keeper.Querier.AmountInByPath),
	)
	return cmd
}

type quoteFunc func(keeper.Querier, context.Context, *types.QueryAmountsByPathRequest) (*types.QueryAmountsByPathResponse, error)

func newQuoteCmd(direction, short string, quote quoteFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   direction + " [amount] [path]",
		Short: short,
		Long: short + `. The path is a comma separated list of assets.

Example:
  $ pairswap dex quote ` + direction + ` 1000 0/0/1,0/1/2,0/1/3 --scenario market.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			amount, ok := math.NewIntFromString(args[0])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			env, _, err := buildEnv(cmd, v)
			if err != nil {
				return err
			}

			res, err := quote(keeper.NewQuerier(*env.Keeper), env.Ctx, &types.QueryAmountsByPathRequest{
				Amount: amount,
				Path:   args[1],
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, v, res)
		},
	}

	AddStateFlags(cmd)
	return cmd
}

// GetCmdEstimateLp returns the command estimating a bootstrap contribution's LP claim
func GetCmdEstimateLp() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate-lp [asset-a] [asset-b] [amount-a] [amount-b]",
		Short: "Estimate the LP shares a bootstrap contribution would claim",
		Long: `Estimate the LP shares a contribution to a bootstrapping pair would be
worth at the pair's target rates.

Example:
  $ pairswap dex estimate-lp 0/0/1 0/1/2 500 0 --scenario bootstrap.yaml`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			amountA, ok := math.NewIntFromString(args[2])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			amountB, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[3])
			}
			env, _, err := buildEnv(cmd, v)
			if err != nil {
				return err
			}

			res, err := keeper.NewQuerier(*env.Keeper).EstimateLp(env.Ctx, &types.QueryEstimateLpRequest{
				AssetA:  args[0],
				AssetB:  args[1],
				AmountA: amountA,
				AmountB: amountB,
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, v, res)
		},
	}

	AddStateFlags(cmd)
	return cmd
}

func parsePairArgs(a, b string) (types.Pair, error) {
	assetA, err := types.ParseAssetId(a)
	if err != nil {
		return types.Pair{}, err
	}
	assetB, err := types.ParseAssetId(b)
	if err != nil {
		return types.Pair{}, err
	}
	return types.NewPair(assetA, assetB)
}
