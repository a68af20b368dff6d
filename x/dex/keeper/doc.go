// Package keeper implements the DEX (Decentralized Exchange) module keeper.
//
// The DEX module is a constant-product automated market maker over pairs
// of fungible assets. Reserves live in a settlement account derived from
// each pair, and every balance change goes through an AssetLedger.
//
// # Core Functionality
//
// Pair Registry: Canonicalizes pairs, derives settlement accounts and
// tracks each pair's lifecycle (Disabled, Bootstrap, Enabled).
//
// Liquidity: AddLiquidity and RemoveLiquidity mint and burn LP shares
// against the current reserves.
//
// Protocol Fee: When a fee receiver is configured, LP shares proportional
// to the growth of sqrt(reserve0*reserve1) since the last liquidity event
// are minted to it before each liquidity change.
//
// Swaps: SwapExactAssetsForAssets and SwapAssetsForExactAssets route along
// multi-hop paths, paying each hop's output straight into the next pair.
//
// Bootstrap: Pairs can collect contributions until a deadline and target
// are met, then open for trading with an LP supply minted at frozen rates.
// Abandoned bootstraps are refunded contribution by contribution.
//
// # Atomicity
//
// Every mutating operation validates first and applies its writes and
// ledger transfers in a cached context that is committed only on success.
//
// # Usage Patterns
//
// Adding liquidity:
//
//	liquidity, err := keeper.AddLiquidity(ctx, who, assetA, assetB, desiredA, desiredB, minA, minB)
//
// Executing a swap:
//
//	amounts, err := keeper.SwapExactAssetsForAssets(ctx, who, amountIn, minOut, path, recipient)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for swaps, liquidity changes,
// protocol fees and bootstrap transitions via DEXMetrics.
package keeper
